// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/mock"
	"github.com/MKhiriev/go-secure-pipeline/internal/service"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// countingWorker counts Run calls and blocks until its context ends.
type countingWorker struct {
	runs    atomic.Int32
	stopped atomic.Bool
}

func (c *countingWorker) Run(ctx context.Context) {
	c.runs.Add(1)
	<-ctx.Done()
	c.stopped.Store(true)
}

// countingProber counts probes.
type countingProber struct {
	probes atomic.Int32
}

func (c *countingProber) Probe(context.Context) models.HealthStatus {
	c.probes.Add(1)
	return models.HealthStatus{Status: models.HealthOK, Store: models.StoreUp}
}

func TestWorkers_RunStartsAllAndWaitReturnsAfterCancel(t *testing.T) {
	w1, w2, w3 := &countingWorker{}, &countingWorker{}, &countingWorker{}
	ws := &Workers{workers: []Worker{w1, w2, w3}}

	ctx, cancel := context.WithCancel(context.Background())
	ws.Run(ctx)

	assert.Eventually(t, func() bool {
		return w1.runs.Load() == 1 && w2.runs.Load() == 1 && w3.runs.Load() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	ws.Wait()

	for i, w := range []*countingWorker{w1, w2, w3} {
		assert.True(t, w.stopped.Load(), "worker[%d] did not stop", i)
	}
}

func TestWorkers_Empty(t *testing.T) {
	ws := &Workers{}

	// Should not block or panic with no workers
	ws.Run(context.Background())
	ws.Wait()
}

func TestNewWorkers(t *testing.T) {
	audit := mock.NewMockAuditService(gomock.NewController(t))

	tests := []struct {
		name     string
		services *service.Services
		prober   HealthProber
		cfg      config.Workers
		want     int
	}{
		{"nothing configured", &service.Services{}, nil, config.Workers{}, 0},
		{"retention", &service.Services{AuditService: audit}, nil, config.Workers{AuditRetention: time.Hour}, 1},
		{"retention disabled", &service.Services{AuditService: audit}, nil, config.Workers{}, 0},
		{"both", &service.Services{AuditService: audit}, &countingProber{}, config.Workers{AuditRetention: time.Hour}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := NewWorkers(tt.services, tt.prober, tt.cfg, logger.Nop())
			assert.Len(t, ws.workers, tt.want)
		})
	}
}

func TestAuditRetentionWorker_PurgesOnEveryTick(t *testing.T) {
	audit := mock.NewMockAuditService(gomock.NewController(t))

	var purges atomic.Int32
	audit.EXPECT().Purge(gomock.Any(), 72*time.Hour).DoAndReturn(func(context.Context, time.Duration) (int64, error) {
		if purges.Add(1) == 2 {
			return 0, errors.New("database is locked")
		}
		return 3, nil
	}).MinTimes(3)

	worker := NewAuditRetentionWorker(audit, config.Workers{
		AuditRetention:         72 * time.Hour,
		AuditRetentionInterval: 5 * time.Millisecond,
	}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return purges.Load() >= 3 }, time.Second, 5*time.Millisecond,
		"a failed purge must not stop the worker")
	cancel()
	<-done
}

func TestHealthProbeWorker_ProbesImmediately(t *testing.T) {
	prober := &countingProber{}
	worker := NewHealthProbeWorker(prober, time.Hour, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return prober.probes.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, int32(1), prober.probes.Load())
}
