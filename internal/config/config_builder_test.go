// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func boolPtr(v bool) *bool { return &v }

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_DefaultsWithSecret verifies that the defaults plus a signing
// secret form a valid configuration.
func TestBuild_DefaultsWithSecret(t *testing.T) {
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs, &StructuredConfig{
		Crypto: Crypto{HMACSharedSecret: "secret"},
	})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, DefaultNonceTTL, cfg.Security.NonceTTL)
	assert.Equal(t, ModeShared, cfg.Crypto.Mode)
	assert.Equal(t, "secret", cfg.Crypto.EncryptionKey())
	assert.Empty(t, cfg.Security.DisabledStages())
	assert.False(t, cfg.Security.EncryptionEnforced())
	assert.False(t, cfg.Session.Enabled())
}

// TestBuild_DefaultsWithoutSecret verifies that signature verification is
// refused without a secret.
func TestBuild_DefaultsWithoutSecret(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCryptoConfigs)
	require.NotNil(t, cfg)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterLayersOverride verifies that non-zero fields of later
// layers win and zero fields keep the earlier value.
func TestBuild_LaterLayersOverride(t *testing.T) {
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs,
		&StructuredConfig{
			App:    App{Version: "1.0.0"},
			Crypto: Crypto{HMACSharedSecret: "first"},
		},
		&StructuredConfig{
			Crypto: Crypto{HMACSharedSecret: "second"},
		},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, "second", cfg.Crypto.HMACSharedSecret)
}

// TestBuild_ExplicitFalseOverridesTrue verifies that a later explicit false
// toggle overrides an earlier true one.
func TestBuild_ExplicitFalseOverridesTrue(t *testing.T) {
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs,
		&StructuredConfig{Security: Security{EncryptionEnabled: boolPtr(true)}},
		&StructuredConfig{Security: Security{
			EncryptionEnabled:            boolPtr(false),
			SignatureVerificationEnabled: boolPtr(false),
		}},
		&StructuredConfig{},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.False(t, cfg.Security.Encryption())
	assert.False(t, cfg.Security.SignatureVerification())
	assert.True(t, cfg.Security.TimestampValidation())
	assert.Equal(t, []string{"signature_verification", "encryption"}, cfg.Security.DisabledStages())
}

// TestBuild_MergesCacheRoutes verifies that routes from the YAML file are
// merged with JSON routes and receive the default TTL.
func TestBuild_MergesCacheRoutes(t *testing.T) {
	routesFile := filepath.Join(t.TempDir(), "cache.yaml")
	require.NoError(t, os.WriteFile(routesFile, []byte(`
routes:
  version:
    key_prefix: app-version
  whoami:
    ttl: 10s
`), 0o600))

	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs, &StructuredConfig{
		Crypto: Crypto{HMACSharedSecret: "secret"},
		Cache: Cache{
			RoutesFile: routesFile,
			Routes: map[string]models.RouteCache{
				"health": {KeyPrefix: "health", TTL: time.Second},
			},
		},
	})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, map[string]models.RouteCache{
		"health":  {KeyPrefix: "health", TTL: time.Second},
		"version": {KeyPrefix: "app-version", TTL: DefaultCacheTTL},
		"whoami":  {KeyPrefix: "whoami", TTL: 10 * time.Second},
	}, cfg.Cache.Routes)
}

// TestBuild_CacheRoutesFileMissing verifies that a configured but absent
// routes file fails the build.
func TestBuild_CacheRoutesFileMissing(t *testing.T) {
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs, &StructuredConfig{
		Crypto: Crypto{HMACSharedSecret: "secret"},
		Cache:  Cache{RoutesFile: filepath.Join(t.TempDir(), "absent.yaml")},
	})

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())
}

// TestWithEnv_ReadsEnvVars verifies that environment variables are picked up.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("APP_VERSION", "env-version")
	t.Setenv("SESSION_TOKEN_ISSUER", "env-issuer")

	b := newConfigBuilder()
	b.withEnv()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-version", b.configs[0].App.Version)
	assert.Equal(t, "env-issuer", b.configs[0].Session.TokenIssuer)
}

// TestWithEnv_SetsErrorOnBadValue verifies that an unparsable variable
// sets b.err and appends nothing.
func TestWithEnv_SetsErrorOnBadValue(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SERVER_MAX_BODY_BYTES", "lots")

	b := newConfigBuilder()
	b.withEnv()

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

// TestWithFlags_ReturnsBuilder verifies the fluent interface.
func TestWithFlags_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags(nil))
}

// TestWithFlags_SetsErrorOnUnknownFlag verifies that parse errors are kept.
func TestWithFlags_SetsErrorOnUnknownFlag(t *testing.T) {
	b := newConfigBuilder().withFlags([]string{"-no-such-flag"})

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_ReturnsBuilder verifies the fluent interface.
func TestWithJSON_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withJSON())
}

// TestWithJSON_NoOp_WhenNoPathSet verifies that withJSON does nothing when
// no config has a JSONFilePath.
func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithJSON_InsertsBelowEnvAndFlags verifies that the JSON layer is
// placed right after the defaults, so env and flags still override it.
func TestWithJSON_InsertsBelowEnvAndFlags(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.Version = "json-version"
	payload.Crypto.HMACSharedSecret = "json-secret"
	payload.Crypto.Mode = ModeShared
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs, &StructuredConfig{
		App:          App{Version: "flag-version"},
		JSONFilePath: path,
	})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 3)
	assert.Equal(t, "json-version", b.configs[1].App.Version)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "flag-version", cfg.App.Version)
	assert.Equal(t, "json-secret", cfg.Crypto.HMACSharedSecret)
}

// TestWithJSON_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: "/nonexistent/config.json",
	})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_SetsError_WhenMalformedJSON verifies that invalid JSON content
// sets b.err.
func TestWithJSON_SetsError_WhenMalformedJSON(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "bad-*.json")
	require.NoError(t, err)
	_, err = f.WriteString("{not valid json")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: f.Name()})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_UsesLastPath verifies that when multiple configs have a
// JSONFilePath, the last non-empty one wins.
func TestWithJSON_UsesLastPath(t *testing.T) {
	first := StructuredJSONConfig{}
	first.App.Version = "first"
	last := StructuredJSONConfig{}
	last.App.Version = "last-wins"

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, first)},
		&StructuredConfig{JSONFilePath: ""},
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, last)},
	)
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 4)
	assert.Equal(t, "last-wins", b.configs[0].App.Version)
}

// TestWithJSON_Skipped_WhenErrorAlreadySet verifies that if b.err is
// already set, the error is preserved and no config is inserted.
func TestWithJSON_Skipped_WhenErrorAlreadySet(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.Version = "should-not-appear"
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.err = assert.AnError
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	assert.ErrorIs(t, b.err, assert.AnError)
	assert.Len(t, b.configs, 1)
}
