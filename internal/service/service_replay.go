// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/store"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

const nonceKeyPrefix = "nonce:"

// MaxNonceLength bounds the x-nonce value, which becomes a store key.
const MaxNonceLength = 128

// replayService keeps one record per nonce in the key/value store. A nonce
// moves from unseen to recorded on its first admission and back to unseen
// once the record expires, which happens only after every timestamp that
// could accompany it has left the window.
type replayService struct {
	kv        store.KeyValueStore
	audit     AuditService
	tolerance time.Duration
	nonceTTL  time.Duration
	now       func() time.Time

	logger *logger.Logger
}

func NewReplayService(kv store.KeyValueStore, audit AuditService, cfg config.Security, logger *logger.Logger) ReplayService {
	tolerance := cfg.TimestampTolerance
	if tolerance <= 0 {
		tolerance = config.DefaultTimestampTolerance
	}
	nonceTTL := cfg.NonceTTL
	if nonceTTL <= 0 {
		nonceTTL = config.DefaultNonceTTL
	}

	return &replayService{
		kv:        kv,
		audit:     audit,
		tolerance: tolerance,
		nonceTTL:  nonceTTL,
		now:       time.Now,
		logger:    logger,
	}
}

// ParseTimestamp parses an x-timestamp value. Only the canonical decimal
// form is accepted, the text strconv.FormatInt produces, so a timestamp has
// exactly one signed spelling.
func ParseTimestamp(raw string) (int64, error) {
	if raw == "" {
		return 0, ErrMissingTimestamp
	}

	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || strconv.FormatInt(ts, 10) != raw {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestampFormat, raw)
	}
	return ts, nil
}

func (s *replayService) Admit(ctx context.Context, rawTimestamp, nonce string, meta models.RequestMeta) error {
	log := logger.FromContext(ctx)

	if rawTimestamp == "" {
		return ErrMissingTimestamp
	}
	if nonce == "" {
		return ErrMissingNonce
	}
	if len(nonce) > MaxNonceLength {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidNonceFormat, len(nonce), MaxNonceLength)
	}

	ts, err := ParseTimestamp(rawTimestamp)
	if err != nil {
		return err
	}

	now := s.now()
	nowMs, tolMs := now.UnixMilli(), s.tolerance.Milliseconds()
	// ts may be any int64; only the window bounds are computed.
	if ts < nowMs-tolMs || ts > nowMs+tolMs {
		log.Warn().
			Int64("timestamp", ts).
			Int64("now", nowMs).
			Str("nonce", utils.MaskString(nonce, 8)).
			Msg("request timestamp outside the accepted window")
		return fmt.Errorf("%w: timestamp %d, now %d", ErrStaleOrFutureTimestamp, ts, nowMs)
	}

	record, err := json.Marshal(models.NonceRecord{
		Nonce:       nonce,
		FirstSeenAt: now.UnixMilli(),
		SourceIP:    meta.SourceIP,
		Path:        meta.Path,
		Method:      meta.Method,
	})
	if err != nil {
		return fmt.Errorf("error encoding nonce record: %w", err)
	}

	recorded, err := s.kv.SetIfAbsent(ctx, nonceKeyPrefix+nonce, record, s.nonceTTL)
	if err != nil {
		log.Err(err).Str("nonce", utils.MaskString(nonce, 8)).Msg("nonce could not be recorded")
		if errors.Is(err, store.ErrUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}

	if !recorded {
		log.Error().
			Str("nonce", utils.MaskString(nonce, 8)).
			Str("method", meta.Method).
			Str("url", meta.OriginalURL).
			Str("ip", meta.SourceIP).
			Msg("replayed nonce rejected")

		s.audit.Record(ctx, models.AuditEvent{
			Kind:      models.AuditReplayedNonce,
			TraceID:   meta.TraceID,
			Method:    meta.Method,
			URL:       meta.OriginalURL,
			SourceIP:  meta.SourceIP,
			UserAgent: meta.UserAgent,
			Nonce:     nonce,
			Timestamp: ts,
		})
		return ErrReplayedNonce
	}

	return nil
}
