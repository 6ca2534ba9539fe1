// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

// Sentinel errors returned by ciphers, the envelope codec and key loaders.
// Callers match them with [errors.Is]; the wrapped detail is for logs only.
var (
	// ErrIntegrity is returned when an authentication tag does not verify or a
	// wrapped key cannot be unwrapped: the payload was tampered with or was
	// sealed under a different key.
	ErrIntegrity = errors.New("payload integrity check failed")

	// ErrFormat is returned when an encrypted payload cannot be split into the
	// expected fields or one of the fields is not validly encoded.
	ErrFormat = errors.New("malformed encrypted payload")

	// ErrInvalidKey is returned for empty secrets, keys of the wrong size and
	// unparsable PEM material.
	ErrInvalidKey = errors.New("invalid key material")
)
