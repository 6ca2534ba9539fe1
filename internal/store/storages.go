// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
)

// Storages groups the storage backends used by the service layer.
type Storages struct {
	// KeyValue holds nonce, session and cache records. It is always wrapped
	// by the guarded store, so failures surface as [ErrUnavailable].
	KeyValue KeyValueStore

	// Audit receives security events.
	Audit AuditRepository

	db *DB
}

// NewStorages builds the storage layer:
//  1. Redis when an address or URL is configured, otherwise the in-process
//     memory store (single instance only, logged at warn);
//  2. the timeout and circuit breaker wrapper around it;
//  3. the SQL audit repository when a DSN is configured (migrations are
//     applied), otherwise the structured log sink.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	var kv KeyValueStore
	if cfg.Redis.Addr != "" || cfg.Redis.URL != "" {
		redisStore, err := NewRedisStore(ctx, cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("redis connection error: %w", err)
		}
		kv = redisStore
	} else {
		log.Warn().Msg("no redis configured: using in-memory store, replay protection is per instance")
		kv = NewMemoryStore(nil)
	}

	storages := &Storages{KeyValue: NewGuardedStore(kv, cfg, log)}

	if cfg.DB.DSN == "" {
		log.Info().Msg("no audit database configured: audit events go to the log")
		storages.Audit = NewAuditLogRepository(log)
		return storages, nil
	}

	db, err := OpenAuditDB(ctx, cfg.DB.DSN, log)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("audit database connection error: %w", err)
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		_ = kv.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	storages.db = db
	storages.Audit = NewAuditRepository(db, log)
	return storages, nil
}

// Close releases the key/value store and the audit database.
func (s *Storages) Close() error {
	var errs []error
	if s.KeyValue != nil {
		errs = append(errs, s.KeyValue.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
