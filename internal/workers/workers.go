// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/service"
)

type Workers struct {
	workers []Worker
	wg      sync.WaitGroup
}

// NewWorkers builds the workers enabled by cfg. prober may be nil when no
// gRPC health service is served.
func NewWorkers(services *service.Services, prober HealthProber, cfg config.Workers, logger *logger.Logger) *Workers {
	ws := &Workers{}

	if services.AuditService != nil && cfg.AuditRetention > 0 {
		ws.workers = append(ws.workers, NewAuditRetentionWorker(services.AuditService, cfg, logger))
	}
	if prober != nil {
		ws.workers = append(ws.workers, NewHealthProbeWorker(prober, cfg.HealthProbeInterval, logger))
	}

	logger.Info().Int("count", len(ws.workers)).Msg("workers created")
	return ws
}

// Run starts every worker in its own goroutine and returns.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			worker.Run(ctx)
		}()
	}
}

// Wait blocks until every started worker has returned.
func (w *Workers) Wait() {
	w.wg.Wait()
}

// periodic runs task once right away and then on every tick until ctx is
// done.
type periodic struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context)
	logger   *logger.Logger
}

func (p *periodic) Run(ctx context.Context) {
	p.logger.Info().Str("worker", p.name).Dur("interval", p.interval).Msg("worker started")
	defer p.logger.Info().Str("worker", p.name).Msg("worker stopped")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.task(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// NewAuditRetentionWorker purges audit events older than
// cfg.AuditRetention every cfg.AuditRetentionInterval.
func NewAuditRetentionWorker(audit service.AuditService, cfg config.Workers, logger *logger.Logger) Worker {
	interval := cfg.AuditRetentionInterval
	if interval <= 0 {
		interval = config.DefaultRetentionInterval
	}

	return &periodic{
		name:     "audit_retention",
		interval: interval,
		logger:   logger,
		task: func(ctx context.Context) {
			deleted, err := audit.Purge(ctx, cfg.AuditRetention)
			if err != nil {
				logger.Err(err).Msg("audit retention failed")
				return
			}
			if deleted > 0 {
				logger.Info().Int64("deleted", deleted).Msg("old audit events purged")
			}
		},
	}
}

// NewHealthProbeWorker calls prober every interval.
func NewHealthProbeWorker(prober HealthProber, interval time.Duration, logger *logger.Logger) Worker {
	if interval <= 0 {
		interval = config.DefaultHealthProbe
	}

	return &periodic{
		name:     "health_probe",
		interval: interval,
		logger:   logger,
		task: func(ctx context.Context) {
			prober.Probe(ctx)
		},
	}
}
