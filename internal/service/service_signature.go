// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

type signatureService struct {
	signer *crypto.Signer
	audit  AuditService

	logger *logger.Logger
}

func NewSignatureService(signer *crypto.Signer, audit AuditService, logger *logger.Logger) SignatureService {
	return &signatureService{
		signer: signer,
		audit:  audit,
		logger: logger,
	}
}

// Verify tries the path candidates in order. When none matches, the audit
// event carries what the server expected over the first candidate so a
// client developer can diff the two signing strings.
func (s *signatureService) Verify(ctx context.Context, sc models.SigningContext, signature string, meta models.RequestMeta) (string, error) {
	log := logger.FromContext(ctx)

	if signature == "" || sc.Nonce == "" || len(sc.PathCandidates) == 0 {
		return "", ErrMissingSecurityHeaders
	}

	if path, ok := s.signer.VerifyAny(sc, signature); ok {
		log.Debug().Str("signed_path", path).Msg("request signature verified")
		return path, nil
	}

	expected := s.signer.Sign(sc)
	bodyHash := utils.SHA256Hex([]byte(sc.Body))

	log.Error().
		Str("method", sc.Method).
		Str("url", meta.OriginalURL).
		Strs("paths_tried", sc.PathCandidates).
		Int64("timestamp", sc.Timestamp).
		Str("nonce", utils.MaskString(sc.Nonce, 8)).
		Str("body_sha256", bodyHash).
		Str("secret_fingerprint", s.signer.Fingerprint()).
		Msg("request signature mismatch")

	s.audit.Record(ctx, models.AuditEvent{
		Kind:              models.AuditInvalidSignature,
		TraceID:           meta.TraceID,
		Method:            sc.Method,
		URL:               meta.OriginalURL,
		SourceIP:          meta.SourceIP,
		UserAgent:         meta.UserAgent,
		Nonce:             sc.Nonce,
		Timestamp:         sc.Timestamp,
		PathsTried:        sc.PathCandidates,
		BodySHA256:        bodyHash,
		ReceivedSignature: signature,
		ExpectedSignature: expected,
		SecretFingerprint: s.signer.Fingerprint(),
	})

	return "", ErrInvalidSignature
}
