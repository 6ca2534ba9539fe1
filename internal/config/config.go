// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

// StructuredConfig is the top-level configuration container for the
// secure pipeline server. It aggregates all sub-configurations and is
// populated by merging defaults, an optional JSON file, environment
// variables (optionally loaded from a .env file) and command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds the version string and log level.
	App App `envPrefix:"APP_"`

	// Server holds listen addresses and timeouts of the HTTP and gRPC
	// servers.
	Server Server `envPrefix:"SERVER_"`

	// Security toggles the pipeline stages and sets the replay window.
	Security Security `envPrefix:"SECURITY_"`

	// Crypto holds the signing secret and the payload encryption keys.
	Crypto Crypto `envPrefix:"CRYPTO_"`

	// Storage holds the key/value store and audit database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Cache maps route ids to response cache settings.
	Cache Cache `envPrefix:"CACHE_"`

	// Session configures JWT session tokens.
	Session Session `envPrefix:"SESSION_"`

	// Workers configures background workers.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level settings.
type App struct {
	// Version is reported by GET /api/v1/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address of the HTTP server, "host:port".
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health server.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout bounds the handling of a single request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// MaxBodyBytes limits the size of a request body.
	// Env: SERVER_MAX_BODY_BYTES
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES"`
}

// Security toggles the pipeline stages. A nil toggle means the variable was
// never set and resolves to enabled: opting out must be explicit.
type Security struct {
	// Env: SECURITY_SIGNATURE_VERIFICATION_ENABLED (alias SIGNATURE_VERIFICATION_ENABLED)
	SignatureVerificationEnabled *bool `env:"SIGNATURE_VERIFICATION_ENABLED"`

	// Env: SECURITY_TIMESTAMP_VALIDATION_ENABLED (alias TIMESTAMP_VALIDATION_ENABLED)
	TimestampValidationEnabled *bool `env:"TIMESTAMP_VALIDATION_ENABLED"`

	// Env: SECURITY_ENCRYPTION_ENABLED (alias ENCRYPTION_ENABLED)
	EncryptionEnabled *bool `env:"ENCRYPTION_ENABLED"`

	// EncryptionRequired rejects plaintext request bodies. Unlike the
	// stage toggles it defaults to false.
	// Env: SECURITY_ENCRYPTION_REQUIRED (alias ENCRYPTION_REQUIRED)
	EncryptionRequired *bool `env:"ENCRYPTION_REQUIRED"`

	// TimestampTolerance is the accepted clock skew in either direction.
	// Env: SECURITY_TIMESTAMP_TOLERANCE
	TimestampTolerance time.Duration `env:"TIMESTAMP_TOLERANCE"`

	// NonceTTL is how long a nonce stays recorded. It must cover the whole
	// acceptance window, i.e. twice the tolerance.
	// Env: SECURITY_NONCE_TTL
	NonceTTL time.Duration `env:"NONCE_TTL"`
}

// SignatureVerification reports whether the signature stage runs.
func (s Security) SignatureVerification() bool { return enabledByDefault(s.SignatureVerificationEnabled) }

// TimestampValidation reports whether the timestamp and nonce stage runs.
func (s Security) TimestampValidation() bool { return enabledByDefault(s.TimestampValidationEnabled) }

// Encryption reports whether request decryption and response encryption run.
func (s Security) Encryption() bool { return enabledByDefault(s.EncryptionEnabled) }

// EncryptionEnforced reports whether plaintext bodies are rejected.
func (s Security) EncryptionEnforced() bool {
	return s.EncryptionRequired != nil && *s.EncryptionRequired
}

// DisabledStages names every stage that was explicitly switched off.
func (s Security) DisabledStages() []string {
	var stages []string
	if !s.TimestampValidation() {
		stages = append(stages, "timestamp_validation")
	}
	if !s.SignatureVerification() {
		stages = append(stages, "signature_verification")
	}
	if !s.Encryption() {
		stages = append(stages, "encryption")
	}
	return stages
}

func enabledByDefault(toggle *bool) bool {
	return toggle == nil || *toggle
}

// Crypto holds key material references.
type Crypto struct {
	// HMACSharedSecret signs requests.
	// Env: CRYPTO_HMAC_SHARED_SECRET (alias HMAC_SHARED_SECRET)
	HMACSharedSecret string `env:"HMAC_SHARED_SECRET"`

	// EncryptionSecret derives the AES key in shared mode. Empty means the
	// HMAC secret is used.
	// Env: CRYPTO_ENCRYPTION_SECRET (alias ENCRYPTION_SECRET)
	EncryptionSecret string `env:"ENCRYPTION_SECRET"`

	// Mode is "shared" or "hybrid".
	// Env: CRYPTO_MODE
	Mode string `env:"MODE"`

	// PrivateKeyPath is the server's RSA key (hybrid mode).
	// Env: CRYPTO_PRIVATE_KEY_PATH
	PrivateKeyPath string `env:"PRIVATE_KEY_PATH"`

	// PeerPublicKeyPath is the client's RSA public key (hybrid mode).
	// Env: CRYPTO_PEER_PUBLIC_KEY_PATH
	PeerPublicKeyPath string `env:"PEER_PUBLIC_KEY_PATH"`
}

// EncryptionKey returns the secret the shared-mode AES key is derived from.
func (c Crypto) EncryptionKey() string {
	if c.EncryptionSecret != "" {
		return c.EncryptionSecret
	}
	return c.HMACSharedSecret
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// Redis holds the nonce/session/cache store settings. Empty means the
	// in-process store.
	Redis Redis `envPrefix:"REDIS_"`

	// DB holds the audit database settings. Empty means audit events are
	// logged.
	DB DB `envPrefix:"DB_"`

	// OperationTimeout bounds every key/value store call.
	// Env: STORAGE_OPERATION_TIMEOUT
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT"`

	// Breaker configures the circuit breaker in front of the store.
	Breaker Breaker `envPrefix:"BREAKER_"`
}

// Redis holds connection settings. URL wins over the individual fields.
type Redis struct {
	// Env: STORAGE_REDIS_URL
	URL string `env:"URL"`

	// Env: STORAGE_REDIS_ADDR
	Addr string `env:"ADDR"`

	// Env: STORAGE_REDIS_PASSWORD
	Password string `env:"PASSWORD"`

	// Env: STORAGE_REDIS_DB
	DB int `env:"DB"`
}

// DB holds connection settings for the audit database.
type DB struct {
	// DSN selects the driver: postgres:// for pgx, file: or *.db for sqlite3.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Breaker configures the key/value store circuit breaker.
type Breaker struct {
	// MaxFailures is the number of consecutive failures that opens it.
	// Env: STORAGE_BREAKER_MAX_FAILURES
	MaxFailures uint32 `env:"MAX_FAILURES"`

	// OpenTimeout is how long it stays open before probing again.
	// Env: STORAGE_BREAKER_OPEN_TIMEOUT
	OpenTimeout time.Duration `env:"OPEN_TIMEOUT"`
}

// Cache configures the route response cache.
type Cache struct {
	// RoutesFile is an optional YAML file with route entries.
	// Env: CACHE_ROUTES_FILE
	RoutesFile string `env:"ROUTES_FILE"`

	// DefaultTTL applies to routes declared without a TTL.
	// Env: CACHE_DEFAULT_TTL
	DefaultTTL time.Duration `env:"DEFAULT_TTL"`

	// Routes maps a route id to its cache settings. Only set from the JSON
	// or YAML file.
	Routes map[string]models.RouteCache
}

// Session configures JWT sessions. Sessions are disabled when
// TokenSignKey is empty.
type Session struct {
	// Env: SESSION_TOKEN_SIGN_KEY (alias JWT_SECRET)
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// Env: SESSION_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// Env: SESSION_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// Enabled reports whether a signing key is configured.
func (s Session) Enabled() bool {
	return s.TokenSignKey != ""
}

// Workers holds configuration for background workers.
type Workers struct {
	// AuditRetention is how long audit events are kept.
	// Env: WORKERS_AUDIT_RETENTION
	AuditRetention time.Duration `env:"AUDIT_RETENTION"`

	// AuditRetentionInterval is how often old events are purged.
	// Env: WORKERS_AUDIT_RETENTION_INTERVAL
	AuditRetentionInterval time.Duration `env:"AUDIT_RETENTION_INTERVAL"`

	// HealthProbeInterval is how often the store is pinged for the gRPC
	// health status.
	// Env: WORKERS_HEALTH_PROBE_INTERVAL
	HealthProbeInterval time.Duration `env:"HEALTH_PROBE_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. Later sources override earlier ones field by field:
//  1. built-in defaults
//  2. JSON file (path from CONFIG or -c)
//  3. environment variables, after loading .env (or ENV_FILE) if present
//  4. command-line flags
//
// The cache routes YAML file, when configured, is merged last.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withDotEnv().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
}
