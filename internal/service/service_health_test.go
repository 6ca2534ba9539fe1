// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/mock"
	"github.com/MKhiriev/go-secure-pipeline/internal/store"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

func TestHealthService_Check(t *testing.T) {
	tests := []struct {
		name    string
		pingErr error
		want    models.HealthStatus
	}{
		{name: "store up", want: models.HealthStatus{Status: models.HealthOK, Store: models.StoreUp}},
		{name: "store down", pingErr: store.ErrUnavailable, want: models.HealthStatus{Status: models.HealthDegraded, Store: models.StoreDown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := mock.NewMockKeyValueStore(gomock.NewController(t))
			kv.EXPECT().Ping(gomock.Any()).Return(tt.pingErr)

			got := NewHealthService(kv, logger.Nop()).Check(context.Background())
			assert.Equal(t, tt.want, got)
		})
	}
}
