// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/store"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// Services bundles every service the HTTP pipeline depends on. The crypto
// values inside are built once here and shared by all requests.
type Services struct {
	ReplayService    ReplayService
	SignatureService SignatureService
	PayloadService   PayloadService
	SessionService   SessionService
	CacheService     CacheService
	AuditService     AuditService
	AppInfoService   AppInfoService
	HealthService    HealthService
}

// NewServices builds the services from storages and cfg. A service whose
// stage is disabled is left nil; the handler skips the stage.
func NewServices(storages *store.Storages, cfg config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	audit := NewAuditService(storages.Audit, logger)

	services := &Services{
		AuditService:   audit,
		SessionService: NewSessionService(storages.KeyValue, cfg.Session, logger),
		CacheService:   NewCacheService(storages.KeyValue, cfg.Cache, logger),
		HealthService:  NewHealthService(storages.KeyValue, logger),
	}

	if cfg.Security.TimestampValidation() {
		services.ReplayService = NewReplayService(storages.KeyValue, audit, cfg.Security, logger)
	}

	if cfg.Security.SignatureVerification() {
		signer, err := crypto.NewSigner(cfg.Crypto.HMACSharedSecret)
		if err != nil {
			return nil, fmt.Errorf("error creating request signer: %w", err)
		}
		services.SignatureService = NewSignatureService(signer, audit, logger)
	}

	protocolVersion := models.ProtocolVersion
	if cfg.Security.Encryption() {
		cipher, err := crypto.NewPayloadCipher(crypto.Options{
			Mode:              crypto.Mode(cfg.Crypto.Mode),
			SharedSecret:      cfg.Crypto.EncryptionKey(),
			PrivateKeyPath:    cfg.Crypto.PrivateKeyPath,
			PeerPublicKeyPath: cfg.Crypto.PeerPublicKeyPath,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating payload cipher: %w", err)
		}
		services.PayloadService = NewPayloadService(cipher, logger)
		protocolVersion = services.PayloadService.ProtocolVersion()
	}

	appInfo, err := NewAppInfoService(cfg.App, protocolVersion, build, logger)
	if err != nil {
		return nil, err
	}
	services.AppInfoService = appInfo

	return services, nil
}
