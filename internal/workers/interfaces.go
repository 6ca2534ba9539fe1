// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that starts
// every worker and waits for all of them to stop.
package workers

import (
	"context"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is cancelled. Workers are started in their own
// goroutine by [Workers.Run].
type Worker interface {
	Run(ctx context.Context)
}

// HealthProber checks the store and publishes the result, e.g. to the gRPC
// health service.
type HealthProber interface {
	Probe(ctx context.Context) models.HealthStatus
}
