// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// ReplayService enforces the timestamp window and single use of nonces.
type ReplayService interface {
	// Admit validates the raw x-timestamp value and records the nonce. It
	// returns ErrReplayedNonce when the nonce has a live record and wraps
	// store.ErrUnavailable when the store cannot answer.
	Admit(ctx context.Context, rawTimestamp, nonce string, meta models.RequestMeta) error
}

// SignatureService verifies request signatures over the path candidates.
type SignatureService interface {
	// Verify returns the path candidate that matched, or ErrInvalidSignature
	// after recording an audit event.
	Verify(ctx context.Context, sc models.SigningContext, signature string, meta models.RequestMeta) (string, error)
}

// PayloadService opens encrypted request bodies and seals response data.
type PayloadService interface {
	Mode() crypto.Mode

	// ProtocolVersion is reported in every response envelope.
	ProtocolVersion() string

	// DecryptRequest accepts a JSON body {"payload": "<wire>"} or the wire
	// string itself and returns the plaintext.
	DecryptRequest(body []byte) ([]byte, error)

	// EncryptResponse seals data and returns the wire string.
	EncryptResponse(data []byte) (string, error)
}

// SessionService issues and checks JWT sessions backed by a store record.
type SessionService interface {
	Enabled() bool
	Issue(ctx context.Context, subject string) (models.Token, error)
	Authenticate(ctx context.Context, tokenString string) (models.Token, error)
	Revoke(ctx context.Context, sessionID string) error
}

// CacheService stores handler results of cached routes.
type CacheService interface {
	// Route returns the cache settings of routeID.
	Route(routeID string) (models.RouteCache, bool)

	// Lookup returns a cached response. Store failures are reported as a
	// miss.
	Lookup(ctx context.Context, routeID string, args models.CacheArgs) (models.CachedResponse, bool)

	// Store saves a response. Failures are logged and dropped.
	Store(ctx context.Context, routeID string, args models.CacheArgs, response models.CachedResponse)
}

// AuditService records security events.
type AuditService interface {
	Record(ctx context.Context, event models.AuditEvent)

	// Purge removes events older than retention.
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

// AppInfoService reports the running version.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetAppInfo(ctx context.Context) models.AppInfo
}

// HealthService reports liveness and store reachability.
type HealthService interface {
	Check(ctx context.Context) models.HealthStatus
}
