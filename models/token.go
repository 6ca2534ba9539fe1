// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a session JWT together with the claims the pipeline relies on.
//
// SessionID mirrors the "jti" claim and keys the session record in the
// key/value store; Subject mirrors "sub" and identifies the caller.
type Token struct {
	// Token is the underlying parsed or freshly signed JWT.
	*jwt.Token `json:"-"`

	// SignedString is the compact JWS form sent in the Authorization header.
	SignedString string `json:"token"`

	Subject   string    `json:"subject"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
