// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the secure request pipeline.
//
// [SecureClient] builds requests the way the server expects them: the body
// is encrypted when a cipher is configured, every request carries a fresh
// timestamp and nonce, and the signature covers the exact bytes sent. The
// response envelope is decoded, its data decrypted, and error envelopes are
// mapped to the sentinel errors in errors.go so callers can use
// [errors.Is] (e.g. [ErrReplayRejected] or [ErrUnauthorized]).
package adapter

import (
	"context"
)

// SecureClient talks to a server behind the secure request pipeline.
type SecureClient interface {
	// SetToken stores the session token attached as a bearer token to all
	// subsequent requests. An empty token removes it.
	SetToken(token string)

	// Token returns the stored session token, or "".
	Token() string

	// Do sends one signed request and decodes the envelope data into out.
	//
	// body may be nil, []byte or string (sent as is), or any value encoded
	// as JSON. out may be nil when the data is not needed. The request is
	// never retried: its nonce is single-use.
	Do(ctx context.Context, method, path string, body, out any) error
}
