// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/store"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

type healthService struct {
	kv store.KeyValueStore

	logger *logger.Logger
}

func NewHealthService(kv store.KeyValueStore, logger *logger.Logger) HealthService {
	return &healthService{kv: kv, logger: logger}
}

// Check pings the key/value store. The process is alive either way, so a
// store outage degrades the status rather than failing it.
func (s *healthService) Check(ctx context.Context) models.HealthStatus {
	if err := s.kv.Ping(ctx); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("key/value store ping failed")
		return models.HealthStatus{Status: models.HealthDegraded, Store: models.StoreDown}
	}
	return models.HealthStatus{Status: models.HealthOK, Store: models.StoreUp}
}
