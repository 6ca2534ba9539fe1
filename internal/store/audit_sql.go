// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

const auditEventsTable = "security_audit_events"

// auditRepository is the SQL-backed [AuditRepository]. It works against
// PostgreSQL and SQLite; only the placeholder format differs.
type auditRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewAuditRepository constructs an [AuditRepository] on top of db.
func NewAuditRepository(db *DB, logger *logger.Logger) AuditRepository {
	logger.Debug().Msg("creating audit repository")
	return &auditRepository{
		db:     db,
		logger: logger,
	}
}

// SaveEvent inserts event. A retryable driver error gets one more attempt.
// A unique violation means the event was already stored and is not an
// error.
func (r *auditRepository) SaveEvent(ctx context.Context, event models.AuditEvent) error {
	log := logger.FromContext(ctx)

	query, args, err := r.buildInsertEvent(event)
	if err != nil {
		log.Err(err).Str("func", "*auditRepository.SaveEvent").Msg("error building insert")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil && r.db.classify(err) == Retryable {
		log.Warn().Err(err).Str("func", "*auditRepository.SaveEvent").Msg("retrying audit insert")
		result, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		log.Err(err).Str("func", "*auditRepository.SaveEvent").Msg("error inserting audit event")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrAuditEventNotSaved
	}

	return nil
}

// DeleteEventsBefore removes events older than cutoff.
func (r *auditRepository) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.statementBuilder().
		Delete(auditEventsTable).
		Where(sq.Lt{"created_at": cutoff.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*auditRepository.DeleteEventsBefore").Msg("error deleting audit events")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return affected, nil
}

func (r *auditRepository) buildInsertEvent(event models.AuditEvent) (string, []any, error) {
	paths, err := json.Marshal(event.PathsTried)
	if err != nil {
		return "", nil, err
	}
	if event.PathsTried == nil {
		paths = []byte("[]")
	}

	return r.db.statementBuilder().
		Insert(auditEventsTable).
		Columns(
			"id",
			"kind",
			"trace_id",
			"method",
			"url",
			"source_ip",
			"user_agent",
			"nonce",
			"request_timestamp",
			"paths_tried",
			"body_sha256",
			"received_signature",
			"expected_signature",
			"secret_fingerprint",
			"created_at",
		).
		Values(
			event.ID,
			string(event.Kind),
			event.TraceID,
			event.Method,
			event.URL,
			event.SourceIP,
			event.UserAgent,
			event.Nonce,
			event.Timestamp,
			string(paths),
			event.BodySHA256,
			event.ReceivedSignature,
			event.ExpectedSignature,
			event.SecretFingerprint,
			event.CreatedAt.UTC(),
		).
		ToSql()
}
