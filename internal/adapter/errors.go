// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrReplayRejected      = errors.New("request rejected by replay protection")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrMethodNotAllowed    = errors.New("method not allowed")
	ErrPayloadTooLarge     = errors.New("payload too large")
	ErrInternalServerError = errors.New("internal server error")
	ErrNotImplemented      = errors.New("not implemented")
	ErrServiceUnavailable  = errors.New("service unavailable")

	// ErrInvalidEnvelope is returned when a response is not a valid
	// envelope or its data cannot be opened.
	ErrInvalidEnvelope = errors.New("invalid response envelope")

	// ErrNoCipher is returned for an encrypted response when the client has
	// no cipher to open it with.
	ErrNoCipher = errors.New("encrypted response but no cipher configured")
)
