// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KeyValueStore is the shared, process-external state of the pipeline:
// nonce records, session records and cached responses.
//
// Implementations must be safe for concurrent use. Get returns
// [ErrKeyNotFound] for absent and expired keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetIfAbsent stores value only when key has no live entry and reports
	// whether it did. Check and insert are a single atomic operation: of two
	// concurrent callers with the same key at most one gets true.
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// AuditRepository persists security events for later investigation.
type AuditRepository interface {
	SaveEvent(ctx context.Context, event models.AuditEvent) error

	// DeleteEventsBefore removes events created before cutoff and returns
	// how many were removed.
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
