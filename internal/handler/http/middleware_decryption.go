// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"net/http"

	"github.com/MKhiriev/go-secure-pipeline/internal/service"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// withDecryption replaces an encrypted body with its plaintext. A body is
// encrypted only when x-encrypted is exactly "true". When encryption is
// required a plaintext body is rejected; an empty body always passes.
func (h *Handler) withDecryption(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.services.PayloadService == nil {
			next.ServeHTTP(w, r)
			return
		}

		encrypted := r.Header.Get(models.HeaderEncrypted) == models.EncryptedHeaderValue
		if !encrypted && !h.encryptionRequired {
			next.ServeHTTP(w, r)
			return
		}

		body, err := utils.ReadAndRestoreBody(r, h.maxBodyBytes)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		if len(bytes.TrimSpace(body)) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if !encrypted {
			h.respondError(w, r, service.ErrEncryptionRequired)
			return
		}

		plaintext, err := h.services.PayloadService.DecryptRequest(body)
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		utils.ReplaceBody(r, plaintext)
		r.Header.Set("Content-Type", "application/json")
		r.Header.Del(models.HeaderEncrypted)

		next.ServeHTTP(w, r)
	})
}
