// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
)

// health is the liveness probe. It answers 200 while the process serves
// requests; a store outage shows up only in the body.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := h.services.HealthService.Check(r.Context())

	if _, err := utils.WriteJSON(w, status, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing health status")
	}
}
