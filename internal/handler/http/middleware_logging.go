// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
)

// withLogging writes one access log line per request. The level follows the
// status: error from 500, warn from 400, info below.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()

		uri := r.RequestURI
		method := r.Method

		lw := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(lw, r)

		duration := time.Since(start)
		status := lw.Status()
		if status == 0 {
			status = http.StatusOK
		}

		log.WithLevel(levelForStatus(status)).
			Str("uri", uri).
			Str("method", method).
			Int("status", status).
			Dur("duration", duration).
			Int("size", lw.BytesWritten()).
			Str("user_agent", r.UserAgent()).
			Str("ip", sourceIP(r)).
			Send()
	})
}

func levelForStatus(status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
