// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidServerConfigs indicates invalid listener or timeout settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSecurityConfigs indicates an invalid replay window, for
	// example a nonce TTL shorter than twice the timestamp tolerance.
	ErrInvalidSecurityConfigs = errors.New("invalid security configuration")
	// ErrInvalidCryptoConfigs indicates missing secrets or keys for an
	// enabled stage, or an unknown crypto mode.
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidStorageConfigs indicates invalid key/value store settings.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidCacheConfigs indicates a route cache entry without a key
	// prefix or TTL.
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
	// ErrInvalidSessionConfigs indicates invalid JWT session settings.
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a zero interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
