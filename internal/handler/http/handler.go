// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/service"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// RouteRegistrar mounts business routes behind the pipeline. The router it
// receives is rooted at /api/v1.
type RouteRegistrar func(r chi.Router)

type Handler struct {
	services *service.Services

	// maxBodyBytes bounds the body read by the signature and decryption
	// stages.
	maxBodyBytes int64

	// encryptionRequired rejects plaintext request bodies.
	encryptionRequired bool

	// protocolVersion is reported in every envelope.
	protocolVersion string

	now func() time.Time

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	maxBody := cfg.Server.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = config.DefaultMaxBodyBytes
	}

	protocolVersion := models.ProtocolVersion
	if services.PayloadService != nil {
		protocolVersion = services.PayloadService.ProtocolVersion()
	}

	if disabled := cfg.Security.DisabledStages(); len(disabled) > 0 {
		logger.Warn().Strs("stages", disabled).Msg("security stages are disabled by configuration")
	}

	logger.Info().Str("version", protocolVersion).Msg("http handler created")
	return &Handler{
		services:           services,
		maxBodyBytes:       maxBody,
		encryptionRequired: cfg.Security.EncryptionEnforced(),
		protocolVersion:    protocolVersion,
		now:                time.Now,
		logger:             logger,
	}
}
