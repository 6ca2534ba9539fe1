// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// auditLogRepository writes audit events to a dedicated structured logger.
// It is used when no audit database is configured. Retention is the log
// pipeline's concern, so DeleteEventsBefore is a no-op.
type auditLogRepository struct {
	logger *logger.Logger
}

// NewAuditLogRepository returns an [AuditRepository] that logs every event
// at error level with sink "audit".
func NewAuditLogRepository(log *logger.Logger) AuditRepository {
	child := log.With().Str("sink", "audit").Logger()
	return &auditLogRepository{logger: &logger.Logger{Logger: child}}
}

func (r *auditLogRepository) SaveEvent(_ context.Context, event models.AuditEvent) error {
	r.logger.Error().
		Str("event_id", event.ID).
		Str("kind", string(event.Kind)).
		Str("trace_id", event.TraceID).
		Str("method", event.Method).
		Str("url", event.URL).
		Str("ip", event.SourceIP).
		Str("user_agent", event.UserAgent).
		Str("nonce", event.Nonce).
		Int64("request_timestamp", event.Timestamp).
		Strs("paths_tried", event.PathsTried).
		Str("body_sha256", event.BodySHA256).
		Str("received_signature", event.ReceivedSignature).
		Str("expected_signature", event.ExpectedSignature).
		Str("secret_fingerprint", event.SecretFingerprint).
		Time("created_at", event.CreatedAt).
		Msg("security audit event")
	return nil
}

func (r *auditLogRepository) DeleteEventsBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}
