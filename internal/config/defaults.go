// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Defaults for settings that have a sensible value out of the box.
const (
	DefaultHTTPAddress        = ":8080"
	DefaultGRPCAddress        = ":9090"
	DefaultRequestTimeout     = 30 * time.Second
	DefaultShutdownTimeout    = 10 * time.Second
	DefaultMaxBodyBytes       = 1 << 20
	DefaultTimestampTolerance = 5 * time.Minute
	DefaultNonceTTL           = 600 * time.Second
	DefaultOperationTimeout   = 2 * time.Second
	DefaultCacheTTL           = 300 * time.Second
	DefaultTokenIssuer        = "go-secure-pipeline"
	DefaultTokenDuration      = 24 * time.Hour
	DefaultAuditRetention     = 30 * 24 * time.Hour
	DefaultRetentionInterval  = time.Hour
	DefaultHealthProbe        = 15 * time.Second
)

// defaultConfig is the lowest configuration layer. Security toggles are
// left nil, which resolves to enabled.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Version:  "dev",
			LogLevel: "info",
		},
		Server: Server{
			HTTPAddress:     DefaultHTTPAddress,
			GRPCAddress:     DefaultGRPCAddress,
			RequestTimeout:  DefaultRequestTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxBodyBytes:    DefaultMaxBodyBytes,
		},
		Security: Security{
			TimestampTolerance: DefaultTimestampTolerance,
			NonceTTL:           DefaultNonceTTL,
		},
		Crypto: Crypto{
			Mode: "shared",
		},
		Storage: Storage{
			OperationTimeout: DefaultOperationTimeout,
			Breaker: Breaker{
				MaxFailures: 5,
				OpenTimeout: 10 * time.Second,
			},
		},
		Cache: Cache{
			DefaultTTL: DefaultCacheTTL,
		},
		Session: Session{
			TokenIssuer:   DefaultTokenIssuer,
			TokenDuration: DefaultTokenDuration,
		},
		Workers: Workers{
			AuditRetention:         DefaultAuditRetention,
			AuditRetentionInterval: DefaultRetentionInterval,
			HealthProbeInterval:    DefaultHealthProbe,
		},
	}
}

// applyDefaultTTL gives every route without a TTL the default one.
func (c *Cache) applyDefaultTTL() {
	for id, route := range c.Routes {
		if route.TTL <= 0 {
			route.TTL = c.DefaultTTL
			c.Routes[id] = route
		}
	}
}
