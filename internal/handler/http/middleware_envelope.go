// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

// withEnvelope wraps whatever the handler produced into a ResponseEnvelope.
// On success the data is encrypted exactly once when encryption is on; on
// failure an error envelope is written instead and nothing is encrypted.
func (h *Handler) withEnvelope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, state := withPipelineState(r.Context())
		ew := newEnvelopeWriter(w)

		next.ServeHTTP(ew, r.WithContext(ctx))

		if state.failure != nil {
			h.writeError(w, r, state.failure)
			return
		}

		response := ew.snapshot()
		if response.status >= http.StatusBadRequest {
			h.writeEnvelope(w, r, models.ResponseEnvelope{
				StatusCode: response.status,
				Message:    failureText(response),
			})
			return
		}

		data, encrypted, err := h.envelopeData(response.body)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		h.writeEnvelope(w, r, models.ResponseEnvelope{
			Success:    true,
			StatusCode: response.status,
			Message:    messageSuccess,
			Data:       data,
			Encrypted:  encrypted,
		})
	})
}

// envelopeData turns a handler body into the envelope's data field. JSON is
// kept as is, other text becomes a JSON string and an empty body becomes {}.
// Non-empty data is sealed when encryption is on.
func (h *Handler) envelopeData(body []byte) (json.RawMessage, bool, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return json.RawMessage("{}"), false, nil
	}

	data := json.RawMessage(body)
	if !json.Valid(body) {
		quoted, err := json.Marshal(string(body))
		if err != nil {
			return nil, false, err
		}
		data = quoted
	}

	if h.services.PayloadService == nil {
		return data, false, nil
	}

	wire, err := h.services.PayloadService.EncryptResponse(data)
	if err != nil {
		return nil, false, err
	}
	quoted, err := json.Marshal(wire)
	if err != nil {
		return nil, false, err
	}
	return quoted, true, nil
}

// failureText is the message of an error a handler wrote without
// respondError. Server error text is never shown.
func failureText(response responseData) string {
	if response.status >= http.StatusInternalServerError {
		return messageInternalError
	}
	if text := string(bytes.TrimSpace(response.body)); text != "" && len(text) <= 200 && !json.Valid(response.body) {
		return text
	}
	return http.StatusText(response.status)
}
