// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/mock"
	"github.com/MKhiriev/go-secure-pipeline/internal/service"
	"github.com/MKhiriev/go-secure-pipeline/internal/store"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

var fixedNow = time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)

func newTestHandler(services *service.Services) *Handler {
	h := NewHandler(services, testConfig(), logger.Nop())
	h.now = func() time.Time { return fixedNow }
	return h
}

// ─────────────────────────────────────────────────────────────────────────────
// error mapping
// ─────────────────────────────────────────────────────────────────────────────

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"missing timestamp", service.ErrMissingTimestamp, http.StatusBadRequest, "Request timestamp required"},
		{"oversized nonce", fmt.Errorf("%w: 129 bytes", service.ErrInvalidNonceFormat), http.StatusBadRequest, "Invalid nonce format"},
		{"replayed nonce", service.ErrReplayedNonce, http.StatusBadRequest, "Request nonce already used (replay attack detected)"},
		{"invalid signature", service.ErrInvalidSignature, http.StatusUnauthorized, "Invalid request signature"},
		{
			"wrapped integrity failure",
			fmt.Errorf("%w: %w", service.ErrInvalidEncryptedPayload, crypto.ErrIntegrity),
			http.StatusBadRequest, "Invalid encrypted payload",
		},
		{"bare integrity failure", crypto.ErrIntegrity, http.StatusBadRequest, "Invalid encrypted payload"},
		{"store down", fmt.Errorf("admit nonce: %w", store.ErrUnavailable), http.StatusServiceUnavailable, "Service temporarily unavailable"},
		{"body too large", utils.ErrBodyTooLarge, http.StatusRequestEntityTooLarge, "Request body too large"},
		{"sessions off", service.ErrSessionDisabled, http.StatusNotImplemented, "Sessions are not configured"},
		{"response encryption", service.ErrResponseEncryption, http.StatusInternalServerError, "Internal server error"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, statusFromError(tt.err))
			assert.Equal(t, tt.message, publicMessage(tt.err))
		})
	}
}

func TestLevelForStatus(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, levelForStatus(http.StatusOK))
	assert.Equal(t, zerolog.InfoLevel, levelForStatus(http.StatusNotModified))
	assert.Equal(t, zerolog.WarnLevel, levelForStatus(http.StatusUnauthorized))
	assert.Equal(t, zerolog.ErrorLevel, levelForStatus(http.StatusServiceUnavailable))
}

// ─────────────────────────────────────────────────────────────────────────────
// envelope writing
// ─────────────────────────────────────────────────────────────────────────────

func TestWriteError_Golden(t *testing.T) {
	h := newTestHandler(&service.Services{})
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/send-otp", nil)
	rec := httptest.NewRecorder()

	h.writeError(rec, req, fmt.Errorf("admit: %w", service.ErrReplayedNonce))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	g.Assert(t, "error_envelope_replay", rec.Body.Bytes())
}

func TestWithEnvelope_PlainSuccess_Golden(t *testing.T) {
	h := newTestHandler(&service.Services{})
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	handler := h.withEnvelope(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = utils.WriteJSON(w, map[string]bool{"sent": true}, http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/diagnostics/echo", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	g.Assert(t, "success_envelope_plain", rec.Body.Bytes())
}

func TestWithEnvelope_Data(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		status    int
		success   bool
		message   string
		data      string
		encrypted bool
	}{
		{
			name:    "empty body becomes an empty object",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
			status:  http.StatusOK,
			success: true,
			message: "Request successful",
			data:    `{}`,
		},
		{
			name:      "text is quoted then sealed",
			handler:   func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("pong")) },
			status:    http.StatusOK,
			success:   true,
			message:   "Request successful",
			data:      `"sealed:\"pong\""`,
			encrypted: true,
		},
		{
			name: "created status is kept",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = utils.WriteJSON(w, map[string]int{"id": 7}, http.StatusCreated)
			},
			status:    http.StatusCreated,
			success:   true,
			message:   "Request successful",
			data:      `"sealed:{\"id\":7}"`,
			encrypted: true,
		},
		{
			name: "client error text becomes the message",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "phone is required", http.StatusBadRequest)
			},
			status:  http.StatusBadRequest,
			message: "phone is required",
			data:    `null`,
		},
		{
			name: "server error text is hidden",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "pq: connection refused", http.StatusBadGateway)
			},
			status:  http.StatusBadGateway,
			message: "Internal server error",
			data:    `null`,
		},
		{
			name: "reported failure wins over written output",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"partial":true}`))
				(&Handler{}).respondError(w, r, service.ErrSessionInvalid)
			},
			status:  http.StatusUnauthorized,
			message: "Invalid or expired session",
			data:    `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			payload := mock.NewMockPayloadService(ctrl)
			payload.EXPECT().ProtocolVersion().Return(models.ProtocolVersion).AnyTimes()
			payload.EXPECT().EncryptResponse(gomock.Any()).DoAndReturn(func(data []byte) (string, error) {
				return "sealed:" + string(data), nil
			}).AnyTimes()

			h := newTestHandler(&service.Services{PayloadService: payload})
			rec := httptest.NewRecorder()
			h.withEnvelope(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/x", nil))

			var envelope models.ResponseEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, envelope.StatusCode)
			assert.Equal(t, tt.success, envelope.Success)
			assert.Equal(t, tt.message, envelope.Message)
			assert.JSONEq(t, tt.data, string(envelope.Data))
			assert.Equal(t, tt.encrypted, envelope.Encrypted)
		})
	}
}

func TestWithEnvelope_EncryptionFailure(t *testing.T) {
	payload := mock.NewMockPayloadService(gomock.NewController(t))
	payload.EXPECT().ProtocolVersion().Return(models.ProtocolVersion).AnyTimes()
	payload.EXPECT().EncryptResponse(gomock.Any()).Return("", service.ErrResponseEncryption)

	h := newTestHandler(&service.Services{PayloadService: payload})
	rec := httptest.NewRecorder()
	h.withEnvelope(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"ok"`)
}

// ─────────────────────────────────────────────────────────────────────────────
// envelopeWriter
// ─────────────────────────────────────────────────────────────────────────────

func TestEnvelopeWriter(t *testing.T) {
	t.Run("buffers everything", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ew := newEnvelopeWriter(rec)

		ew.Header().Set("Content-Type", "text/plain")
		ew.WriteHeader(http.StatusAccepted)
		ew.WriteHeader(http.StatusTeapot)
		_, err := ew.Write([]byte("hello "))
		require.NoError(t, err)
		_, err = ew.Write([]byte("world"))
		require.NoError(t, err)

		got := ew.snapshot()
		assert.Equal(t, http.StatusAccepted, got.status)
		assert.Equal(t, "text/plain", got.contentType)
		assert.Equal(t, "hello world", string(got.body))

		assert.Zero(t, rec.Body.Len(), "nothing may reach the client before the envelope")
		assert.False(t, rec.Flushed)
	})

	t.Run("defaults to 200", func(t *testing.T) {
		ew := newEnvelopeWriter(httptest.NewRecorder())
		assert.Equal(t, http.StatusOK, ew.statusCode())

		_, _ = ew.Write([]byte("x"))
		assert.Equal(t, http.StatusOK, ew.statusCode())
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		ew := newEnvelopeWriter(httptest.NewRecorder())
		_, _ = ew.Write([]byte("abc"))

		got := ew.snapshot()
		_, _ = ew.Write([]byte("def"))
		assert.Equal(t, "abc", string(got.body))
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// trace id
// ─────────────────────────────────────────────────────────────────────────────

func TestWithTraceID(t *testing.T) {
	h := newTestHandler(&service.Services{})

	var seen string
	handler := h.withTraceID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = utils.GetTraceIDFromContext(r.Context())
	}))

	t.Run("client id is kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(models.HeaderTraceID, "client-trace-1")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "client-trace-1", seen)
		assert.Equal(t, "client-trace-1", rec.Header().Get(models.HeaderTraceID))
	})

	t.Run("id is generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(models.HeaderTraceID))
		assert.True(t, strings.Count(seen, "-") == 4, "expected a UUID, got %q", seen)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// bypass
// ─────────────────────────────────────────────────────────────────────────────

func TestBypassesSecurity(t *testing.T) {
	tests := []struct {
		method string
		target string
		want   bool
	}{
		{http.MethodGet, "/api/v1/version", true},
		{http.MethodPost, "/api/v1/health", true},
		{http.MethodPost, "/api/v1/healthz/deep", true},
		{http.MethodPost, "/api/v1/auth/send-otp", false},
		{http.MethodPut, "/api/v1/profile", false},
		{http.MethodDelete, "/api/v1/profile", false},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, bypassesSecurity(httptest.NewRequest(tt.method, tt.target, nil)))
		})
	}
}
