// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
)

// withRecover turns a panic into a 500 error envelope. It replaces
// middleware.Recoverer, which answers with a bare status line.
func (h *Handler) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.FromRequest(r).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("recovered from panic")
			h.writeError(w, r, fmt.Errorf("%w: %v", errPanicRecovered, rec))
		}()

		next.ServeHTTP(w, r)
	})
}
