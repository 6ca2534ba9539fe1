// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/internal/service"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// withSignature verifies x-signature over the exact body received. It runs
// before decryption, so an encrypted request is signed over its ciphertext.
func (h *Handler) withSignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.services.SignatureService == nil || bypassesSecurity(r) {
			next.ServeHTTP(w, r)
			return
		}

		signature := r.Header.Get(models.HeaderSignature)
		rawTimestamp := r.Header.Get(models.HeaderTimestamp)
		nonce := r.Header.Get(models.HeaderNonce)
		if signature == "" || rawTimestamp == "" || nonce == "" {
			h.respondError(w, r, service.ErrMissingSecurityHeaders)
			return
		}

		timestamp, err := service.ParseTimestamp(rawTimestamp)
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		body, err := utils.ReadAndRestoreBody(r, h.maxBodyBytes)
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		sc := models.SigningContext{
			Method:         r.Method,
			PathCandidates: crypto.SigningPaths(requestURL(r), routedPath(r)),
			Timestamp:      timestamp,
			Nonce:          nonce,
			Body:           string(body),
		}
		if _, err = h.services.SignatureService.Verify(r.Context(), sc, signature, requestMeta(r)); err != nil {
			h.respondError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// routedPath is the path as seen by the router that mounted the pipeline,
// e.g. "/auth/send-otp" for a group mounted at /api/v1.
func routedPath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
		return rctx.RoutePath
	}
	return r.URL.Path
}
