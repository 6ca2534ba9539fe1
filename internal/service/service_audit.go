// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/store"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// DefaultAuditWriteTimeout bounds a single audit write.
const DefaultAuditWriteTimeout = 3 * time.Second

type auditService struct {
	repository store.AuditRepository
	ids        *utils.UUIDGenerator
	now        func() time.Time

	logger *logger.Logger
}

// NewAuditService wraps repository. Events get an id and a creation time
// when they have none.
func NewAuditService(repository store.AuditRepository, logger *logger.Logger) AuditService {
	return &auditService{
		repository: repository,
		ids:        utils.NewUUIDGenerator(),
		now:        time.Now,
		logger:     logger,
	}
}

// Record saves event on a context detached from the request, so a client
// that hangs up cannot drop the event. A failed write is logged.
func (s *auditService) Record(ctx context.Context, event models.AuditEvent) {
	if event.ID == "" {
		event.ID = s.ids.Generate()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now().UTC()
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultAuditWriteTimeout)
	defer cancel()

	if err := s.repository.SaveEvent(writeCtx, event); err != nil {
		s.logger.Err(err).
			Str("audit_id", event.ID).
			Str("kind", string(event.Kind)).
			Str("trace_id", event.TraceID).
			Msg("audit event was not saved")
	}
}

func (s *auditService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("%w: retention must be positive", ErrInvalidDataProvided)
	}

	cutoff := s.now().Add(-retention)
	deleted, err := s.repository.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error purging audit events: %w", err)
	}
	return deleted, nil
}
