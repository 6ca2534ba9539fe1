// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

const messageSuccess = "Request successful"

// pipelineState is shared between withEnvelope and everything it wraps.
// Handlers report failures into it instead of writing, so the envelope is
// written exactly once.
type pipelineState struct {
	failure error
}

type pipelineStateKey struct{}

func withPipelineState(ctx context.Context) (context.Context, *pipelineState) {
	state := &pipelineState{}
	return context.WithValue(ctx, pipelineStateKey{}, state), state
}

func pipelineStateFrom(ctx context.Context) *pipelineState {
	state, _ := ctx.Value(pipelineStateKey{}).(*pipelineState)
	return state
}

// respondError ends the request with err. Inside the envelope stage the
// error is handed to it; outside, the error envelope is written directly.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if state := pipelineStateFrom(r.Context()); state != nil {
		state.failure = err
		return
	}
	h.writeError(w, r, err)
}

// writeError writes the failure envelope for err. Data is always null and
// the envelope is never encrypted.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Str("url", r.RequestURI).Msg("request failed")
	} else {
		log.Warn().Err(err).Int("status", status).Str("url", r.RequestURI).Msg("request rejected")
	}

	h.writeEnvelope(w, r, models.ResponseEnvelope{
		Success:    false,
		StatusCode: status,
		Message:    publicMessage(err),
	})
}

// writeEnvelope fills the request-derived fields of envelope and writes it.
func (h *Handler) writeEnvelope(w http.ResponseWriter, r *http.Request, envelope models.ResponseEnvelope) {
	envelope.Path = requestURL(r)
	envelope.Timestamp = h.now().UTC().Format(models.EnvelopeTimeLayout)
	envelope.Version = h.protocolVersion
	if envelope.Data == nil {
		envelope.Data = json.RawMessage("null")
	}

	if _, err := utils.WriteJSON(w, envelope, envelope.StatusCode); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response envelope")
	}
}

func requestURL(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}

// requestMeta collects what nonce records and audit events keep about r.
func requestMeta(r *http.Request) models.RequestMeta {
	return models.RequestMeta{
		Method:      r.Method,
		Path:        r.URL.Path,
		OriginalURL: requestURL(r),
		SourceIP:    sourceIP(r),
		TraceID:     utils.GetTraceIDFromContext(r.Context()),
		UserAgent:   r.UserAgent(),
	}
}

// sourceIP strips the port from RemoteAddr. middleware.RealIP may already
// have replaced it with a bare address.
func sourceIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
