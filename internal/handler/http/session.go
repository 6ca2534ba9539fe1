// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/service"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
)

type whoamiResponse struct {
	Subject   string `json:"subject"`
	SessionID string `json:"sessionId"`
}

func (h *Handler) whoami(w http.ResponseWriter, r *http.Request) {
	subject, ok := utils.GetSubjectFromContext(r.Context())
	if !ok {
		h.respondError(w, r, service.ErrSessionInvalid)
		return
	}
	sessionID, _ := utils.GetSessionIDFromContext(r.Context())

	if _, err := utils.WriteJSON(w, whoamiResponse{Subject: subject, SessionID: sessionID}, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing whoami response")
	}
}

// logout revokes the session the request was authenticated with.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := utils.GetSessionIDFromContext(r.Context())
	if !ok {
		h.respondError(w, r, service.ErrSessionInvalid)
		return
	}

	if err := h.services.SessionService.Revoke(r.Context(), sessionID); err != nil {
		h.respondError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Str("session_id", sessionID).Msg("session revoked")
	w.WriteHeader(http.StatusOK)
}
