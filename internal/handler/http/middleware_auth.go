// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-secure-pipeline/internal/service"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
)

// auth requires a live session token in the "Authorization: Bearer" header.
// On success the subject and session id are stored in the request context
// under [utils.SubjectCtxKey] and [utils.SessionIDCtxKey].
//
// Requests are rejected with 401 when the header is absent or malformed, or
// when the token or its session is invalid.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.services.SessionService == nil || !h.services.SessionService.Enabled() {
			h.respondError(w, r, service.ErrSessionDisabled)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.respondError(w, r, ErrEmptyAuthorizationHeader)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			h.respondError(w, r, ErrInvalidAuthorizationHeader)
			return
		}

		ctx := r.Context()
		token, err := h.services.SessionService.Authenticate(ctx, tokenString)
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		ctx = utils.WithSubject(ctx, token.Subject)
		ctx = utils.WithSessionID(ctx, token.SessionID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
