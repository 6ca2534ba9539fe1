// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
)

// echo returns the request body as the handler saw it, i.e. after
// decryption. Clients use it to test signing and encryption end to end.
func (h *Handler) echo(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodyBytes+1))
	if err != nil {
		log.Err(err).Msg("failed to read request body")
		h.respondError(w, r, err)
		return
	}
	if int64(len(body)) > h.maxBodyBytes {
		h.respondError(w, r, utils.ErrBodyTooLarge)
		return
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		h.respondError(w, r, ErrInvalidJSON)
		return
	}

	if _, err = utils.WriteJSON(w, json.RawMessage(body), http.StatusOK); err != nil {
		log.Err(err).Msg("error writing echo response")
	}
}
