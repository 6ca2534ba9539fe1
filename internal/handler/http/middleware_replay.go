// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

// bypassesSecurity reports whether r skips the timestamp, nonce and
// signature stages.
func bypassesSecurity(r *http.Request) bool {
	return r.Method == http.MethodGet || strings.Contains(r.URL.Path, "/health")
}

// withReplayGuard admits each nonce once inside the timestamp window. It is
// a pass-through when the stage is disabled.
func (h *Handler) withReplayGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.services.ReplayService == nil || bypassesSecurity(r) {
			next.ServeHTTP(w, r)
			return
		}

		err := h.services.ReplayService.Admit(r.Context(),
			r.Header.Get(models.HeaderTimestamp),
			r.Header.Get(models.HeaderNonce),
			requestMeta(r),
		)
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
