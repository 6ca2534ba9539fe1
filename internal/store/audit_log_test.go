// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
)

func TestAuditLogRepository_SaveEvent(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewLogger("test")
	l.Logger = l.Output(&buf)

	repo := NewAuditLogRepository(l)
	require.NoError(t, repo.SaveEvent(context.Background(), testAuditEvent()))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "audit", entry["sink"])
	assert.Equal(t, "invalid_signature", entry["kind"])
	assert.Equal(t, "1a2b3c4d", entry["secret_fingerprint"])
	assert.Equal(t, []any{"/auth/otp/request", "/api/v1/auth/otp/request"}, entry["paths_tried"])

	n, err := repo.DeleteEventsBefore(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}
