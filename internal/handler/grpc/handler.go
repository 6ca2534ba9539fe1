// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package grpc exposes the pipeline's health over the standard gRPC health
// checking protocol, for orchestrators that probe over gRPC.
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/service"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// ServiceName is the health service name reported next to the overall ("")
// status.
const ServiceName = "securepipeline.v1.Pipeline"

// Handler is the root gRPC transport handler.
//
// It publishes the result of the latest store probe; it never checks the
// store itself while serving a health RPC.
type Handler struct {
	services *service.Services

	health *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler]. Both services report NOT_SERVING until
// the first [Handler.Probe].
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	h := &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)

	logger.Debug().Msg("gRPC handler created")
	return h
}

// Register attaches the health service to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Probe checks the key/value store and publishes SERVING or NOT_SERVING.
func (h *Handler) Probe(ctx context.Context) models.HealthStatus {
	status := h.services.HealthService.Check(ctx)

	serving := healthpb.HealthCheckResponse_SERVING
	if status.Status != models.HealthOK {
		serving = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.setStatus(serving)

	h.logger.Debug().Str("status", status.Status).Str("store", status.Store).Msg("health probed")
	return status
}

// Shutdown reports NOT_SERVING to every watcher and ignores later updates.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

func (h *Handler) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
