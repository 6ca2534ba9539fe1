// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/handler"
	"github.com/MKhiriev/go-secure-pipeline/internal/handler/http"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/server"
	"github.com/MKhiriev/go-secure-pipeline/internal/service"
	"github.com/MKhiriev/go-secure-pipeline/internal/store"
	"github.com/MKhiriev/go-secure-pipeline/internal/workers"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

type App struct {
	storages *store.Storages
	services *service.Services
	handlers *handler.Handlers
	workers  *workers.Workers
	server   server.Server

	logger *logger.Logger
}

// NewApp builds every layer from cfg. routes are mounted behind the HTTP
// pipeline.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger, routes ...http.RouteRegistrar) (*App, error) {
	storages, err := store.NewStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create storages: %w", err)
	}

	services, err := service.NewServices(storages, *cfg, build, logger)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create services: %w", err)
	}

	handlers, err := handler.NewHandlers(services, *cfg, logger)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, logger, routes...)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create server: %w", err)
	}

	var prober workers.HealthProber
	if handlers.GRPC != nil {
		prober = handlers.GRPC
	}

	return &App{
		storages: storages,
		services: services,
		handlers: handlers,
		workers:  workers.NewWorkers(services, prober, cfg.Workers, logger),
		server:   srv,
		logger:   logger,
	}, nil
}

// Run serves until ctx is done, then stops the workers and closes the
// storages.
func (a *App) Run(ctx context.Context) error {
	workerCtx, stopWorkers := context.WithCancel(ctx)
	a.workers.Run(workerCtx)

	runErr := a.server.Run(ctx)

	stopWorkers()
	a.workers.Wait()

	if err := a.storages.Close(); err != nil {
		a.logger.Err(err).Msg("error closing storages")
	}
	return runErr
}
