// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the secure request pipeline in front of the REST
// API.
//
// Every request under /api/v1 passes the same stages in a fixed order:
//
//	trace id -> access log -> panic recovery
//	  -> timestamp and nonce -> signature -> decryption
//	  -> response envelope (encrypts on success) -> route cache -> handler
//
// A failing stage stops the request and answers with an error envelope.
// GET requests and paths containing "/health" skip the timestamp, nonce and
// signature stages but still pass decryption and the envelope.
package http
