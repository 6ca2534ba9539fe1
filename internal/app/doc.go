// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app implements the server application runtime.
//
// It wires storages, services, transport handlers, background workers and
// servers into a single process lifecycle.
package app
