// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Route ids of the built-in cached routes.
const (
	RouteVersion = "version"
)

// Init builds the router. Extra routes are mounted under /api/v1 behind every
// pipeline stage.
func (h *Handler) Init(routes ...RouteRegistrar) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RealIP,
		h.withTraceID,
		h.withLogging,
		h.withRecover,
		middleware.Compress(5, "application/json"),
	)

	// set before mounting so sub-routers inherit them
	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.methodNotAllowed(router))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(
			h.withReplayGuard,
			h.withSignature,
			h.withDecryption,
			h.withEnvelope,
		)

		r.Get("/health", h.health)
		r.With(h.cached(RouteVersion)).Get("/version", h.getVersion)
		r.Post("/diagnostics/echo", h.echo)

		r.Route("/session", func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/whoami", h.whoami)
			r.Post("/logout", h.logout)
		})

		for _, register := range routes {
			register(r)
		}
	})

	return router
}
