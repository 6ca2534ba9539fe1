// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

// Replay stage errors.
var (
	ErrMissingTimestamp       = errors.New("request timestamp required")
	ErrMissingNonce           = errors.New("request nonce required")
	ErrInvalidNonceFormat     = errors.New("invalid nonce format")
	ErrInvalidTimestampFormat = errors.New("invalid timestamp format")
	ErrStaleOrFutureTimestamp = errors.New("request timestamp expired or too far in future")
	ErrReplayedNonce          = errors.New("request nonce already used")
)

// Signature stage errors.
var (
	ErrMissingSecurityHeaders = errors.New("missing security headers")
	ErrInvalidSignature       = errors.New("invalid request signature")
)

// Payload stage errors.
var (
	ErrInvalidEncryptedPayload = errors.New("invalid encrypted payload")
	ErrEncryptionRequired      = errors.New("encryption required for this endpoint")
	ErrResponseEncryption      = errors.New("response encryption failed")
)

// Session errors.
var (
	ErrSessionInvalid  = errors.New("invalid or expired session")
	ErrSessionDisabled = errors.New("sessions are not configured")
)

var (
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
	ErrInvalidDataProvided   = errors.New("invalid data provided")
)
