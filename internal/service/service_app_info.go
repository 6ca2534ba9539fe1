// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

type appInfoService struct {
	appVersion      string
	protocolVersion string
	build           models.AppBuildInfo

	logger *logger.Logger
}

// NewAppInfoService reports cfg.Version together with the payload protocol
// version of the running encryption mode.
func NewAppInfoService(cfg config.App, protocolVersion string, build models.AppBuildInfo, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		appVersion:      cfg.Version,
		protocolVersion: protocolVersion,
		build:           build,
		logger:          logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

func (s *appInfoService) GetAppInfo(ctx context.Context) models.AppInfo {
	return models.AppInfo{
		Version:         s.appVersion,
		ProtocolVersion: s.protocolVersion,
		BuildDate:       s.build.BuildDate(),
		BuildCommit:     s.build.BuildCommit(),
	}
}
