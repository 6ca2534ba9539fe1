// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/store"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

const sessionKeyPrefix = "session:"

// sessionService issues HS256 session tokens. A token is honoured only while
// its session record exists, so deleting the record revokes the token before
// it expires.
type sessionService struct {
	kv  store.KeyValueStore
	ids *utils.UUIDGenerator

	// tokenSignKey signs and verifies tokens. Empty disables sessions.
	tokenSignKey string

	// tokenIssuer is the "iss" claim of every issued token.
	tokenIssuer string

	// tokenDuration bounds both the token and its session record.
	tokenDuration time.Duration

	logger *logger.Logger
}

func NewSessionService(kv store.KeyValueStore, cfg config.Session, logger *logger.Logger) SessionService {
	issuer := cfg.TokenIssuer
	if issuer == "" {
		issuer = config.DefaultTokenIssuer
	}
	duration := cfg.TokenDuration
	if duration <= 0 {
		duration = config.DefaultTokenDuration
	}

	return &sessionService{
		kv:            kv,
		ids:           utils.NewUUIDGenerator(),
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   issuer,
		tokenDuration: duration,
		logger:        logger,
	}
}

func (s *sessionService) Enabled() bool {
	return s.tokenSignKey != ""
}

// Issue signs a token for subject and records its session.
func (s *sessionService) Issue(ctx context.Context, subject string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if !s.Enabled() {
		return models.Token{}, ErrSessionDisabled
	}
	if subject == "" {
		return models.Token{}, fmt.Errorf("%w: empty subject", ErrInvalidDataProvided)
	}

	token, err := utils.GenerateJWTToken(s.tokenIssuer, subject, s.ids.Generate(), s.tokenDuration, s.tokenSignKey)
	if err != nil {
		log.Err(err).Str("subject", utils.MaskPhone(subject)).Msg("session token was not created")
		return models.Token{}, fmt.Errorf("error creating session token: %w", err)
	}

	if err = s.kv.Set(ctx, sessionKeyPrefix+token.SessionID, []byte(subject), s.tokenDuration); err != nil {
		log.Err(err).Str("session_id", token.SessionID).Msg("session record was not saved")
		return models.Token{}, fmt.Errorf("error saving session: %w", err)
	}

	log.Info().
		Str("subject", utils.MaskPhone(subject)).
		Str("session_id", token.SessionID).
		Time("expires_at", token.ExpiresAt).
		Msg("session issued")
	return token, nil
}

// Authenticate validates tokenString and checks that its session is live
// and belongs to the token's subject.
func (s *sessionService) Authenticate(ctx context.Context, tokenString string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if !s.Enabled() {
		return models.Token{}, ErrSessionDisabled
	}

	token, err := utils.ValidateAndParseJWTToken(tokenString, s.tokenSignKey, s.tokenIssuer)
	if err != nil {
		log.Warn().Err(err).Msg("session token rejected")
		return models.Token{}, ErrSessionInvalid
	}

	subject, err := s.kv.Get(ctx, sessionKeyPrefix+token.SessionID)
	switch {
	case errors.Is(err, store.ErrKeyNotFound):
		log.Warn().Str("session_id", token.SessionID).Msg("session is revoked or expired")
		return models.Token{}, ErrSessionInvalid
	case err != nil:
		return models.Token{}, fmt.Errorf("error reading session: %w", err)
	}

	if string(subject) != token.Subject {
		log.Warn().Str("session_id", token.SessionID).Msg("session subject mismatch")
		return models.Token{}, ErrSessionInvalid
	}

	return token, nil
}

func (s *sessionService) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: empty session id", ErrInvalidDataProvided)
	}
	if err := s.kv.Del(ctx, sessionKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("error revoking session: %w", err)
	}
	return nil
}
