// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
)

// Crypto modes accepted in [Crypto.Mode].
const (
	ModeShared = "shared"
	ModeHybrid = "hybrid"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. Every failing group
// is reported, each wrapped in its group sentinel.
func (cfg *StructuredConfig) validate() error {
	return errors.Join(
		cfg.Server.validate(),
		cfg.Security.validate(),
		cfg.validateCrypto(),
		cfg.Storage.validate(),
		cfg.Cache.validate(),
		cfg.Session.validate(),
		cfg.Workers.validate(),
	)
}

func (s Server) validate() error {
	switch {
	case s.HTTPAddress == "":
		return fmt.Errorf("%w: http address is empty", ErrInvalidServerConfigs)
	case s.RequestTimeout <= 0:
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidServerConfigs)
	case s.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidServerConfigs)
	case s.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max body bytes must be positive", ErrInvalidServerConfigs)
	}
	return nil
}

func (s Security) validate() error {
	if !s.TimestampValidation() {
		return nil
	}
	if s.TimestampTolerance <= 0 {
		return fmt.Errorf("%w: timestamp tolerance must be positive", ErrInvalidSecurityConfigs)
	}
	if s.NonceTTL < 2*s.TimestampTolerance {
		return fmt.Errorf("%w: nonce ttl %s is shorter than the acceptance window %s",
			ErrInvalidSecurityConfigs, s.NonceTTL, 2*s.TimestampTolerance)
	}
	return nil
}

func (cfg *StructuredConfig) validateCrypto() error {
	c := cfg.Crypto
	if cfg.Security.SignatureVerification() && c.HMACSharedSecret == "" {
		return fmt.Errorf("%w: signature verification requires an HMAC shared secret", ErrInvalidCryptoConfigs)
	}

	switch c.Mode {
	case ModeShared, "":
		if cfg.Security.Encryption() && c.EncryptionKey() == "" {
			return fmt.Errorf("%w: shared mode requires an encryption secret", ErrInvalidCryptoConfigs)
		}
	case ModeHybrid:
		if cfg.Security.Encryption() && (c.PrivateKeyPath == "" || c.PeerPublicKeyPath == "") {
			return fmt.Errorf("%w: hybrid mode requires a private key and a peer public key", ErrInvalidCryptoConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidCryptoConfigs, c.Mode)
	}
	return nil
}

func (s Storage) validate() error {
	if s.OperationTimeout <= 0 {
		return fmt.Errorf("%w: operation timeout must be positive", ErrInvalidStorageConfigs)
	}
	if s.Breaker.MaxFailures == 0 || s.Breaker.OpenTimeout <= 0 {
		return fmt.Errorf("%w: breaker needs a failure threshold and an open timeout", ErrInvalidStorageConfigs)
	}
	return nil
}

func (c Cache) validate() error {
	for id, route := range c.Routes {
		if route.KeyPrefix == "" {
			return fmt.Errorf("%w: route %q has no key prefix", ErrInvalidCacheConfigs, id)
		}
		if route.TTL <= 0 {
			return fmt.Errorf("%w: route %q has no ttl", ErrInvalidCacheConfigs, id)
		}
	}
	return nil
}

func (s Session) validate() error {
	if s.Enabled() && s.TokenDuration <= 0 {
		return fmt.Errorf("%w: token duration must be positive", ErrInvalidSessionConfigs)
	}
	return nil
}

func (w Workers) validate() error {
	if w.AuditRetention <= 0 || w.AuditRetentionInterval <= 0 || w.HealthProbeInterval <= 0 {
		return fmt.Errorf("%w: intervals must be positive", ErrInvalidWorkerConfigs)
	}
	return nil
}
