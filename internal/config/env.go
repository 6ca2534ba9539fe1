// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvFileVar names the variable that points to the dotenv file.
const DotEnvFileVar = "ENV_FILE"

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Struct fields are mapped via their `env` and `envPrefix` tags
// defined on [StructuredConfig] and its nested types. Unprefixed variable
// names used by older deployments fill the fields their prefixed
// counterparts left unset.
//
// Returns a wrapped error if env.Parse fails (e.g. a value cannot be
// converted to the target type).
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	var legacy legacyEnv
	if err := env.Parse(&legacy); err != nil {
		return fmt.Errorf("error getting legacy env configs: %w", err)
	}
	legacy.applyTo(cfg)

	return nil
}

// loadDotEnv loads the file named by ENV_FILE, or ./.env, into the process
// environment. Variables that are already set are not overridden. A missing
// file is not an error.
func loadDotEnv() error {
	path := os.Getenv(DotEnvFileVar)
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading env file %s: %w", path, err)
	}
	return nil
}

// legacyEnv lists the unprefixed variable names still accepted.
type legacyEnv struct {
	SignatureVerificationEnabled *bool  `env:"SIGNATURE_VERIFICATION_ENABLED"`
	TimestampValidationEnabled   *bool  `env:"TIMESTAMP_VALIDATION_ENABLED"`
	EncryptionEnabled            *bool  `env:"ENCRYPTION_ENABLED"`
	EncryptionRequired           *bool  `env:"ENCRYPTION_REQUIRED"`
	HMACSharedSecret             string `env:"HMAC_SHARED_SECRET"`
	EncryptionSecret             string `env:"ENCRYPTION_SECRET"`
	JWTSecret                    string `env:"JWT_SECRET"`
	RedisHost                    string `env:"REDIS_HOST"`
	RedisPort                    string `env:"REDIS_PORT"`
	RedisPassword                string `env:"REDIS_PASSWORD"`
	Port                         string `env:"PORT"`
}

func (l legacyEnv) applyTo(cfg *StructuredConfig) {
	sec := &cfg.Security
	if sec.SignatureVerificationEnabled == nil {
		sec.SignatureVerificationEnabled = l.SignatureVerificationEnabled
	}
	if sec.TimestampValidationEnabled == nil {
		sec.TimestampValidationEnabled = l.TimestampValidationEnabled
	}
	if sec.EncryptionEnabled == nil {
		sec.EncryptionEnabled = l.EncryptionEnabled
	}
	if sec.EncryptionRequired == nil {
		sec.EncryptionRequired = l.EncryptionRequired
	}

	setIfEmpty(&cfg.Crypto.HMACSharedSecret, l.HMACSharedSecret)
	setIfEmpty(&cfg.Crypto.EncryptionSecret, l.EncryptionSecret)
	setIfEmpty(&cfg.Session.TokenSignKey, l.JWTSecret)
	setIfEmpty(&cfg.Storage.Redis.Password, l.RedisPassword)

	if l.RedisHost != "" && cfg.Storage.Redis.Addr == "" && cfg.Storage.Redis.URL == "" {
		port := l.RedisPort
		if port == "" {
			port = "6379"
		}
		cfg.Storage.Redis.Addr = net.JoinHostPort(l.RedisHost, port)
	}
	if l.Port != "" && cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = ":" + l.Port
	}
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
