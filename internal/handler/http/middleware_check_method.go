// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

// notFound answers unknown routes with a 404 envelope.
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.respondError(w, r, ErrRouteNotFound)
}

// methodNotAllowed answers a known path requested with an unsupported method
// with a 405 envelope. The Allow header lists the registered methods, found
// by walking the router for the requested pattern.
func (h *Handler) methodNotAllowed(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allowed := allowedMethods(router, r.URL.Path); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		h.respondError(w, r, ErrMethodNotAllowed)
	}
}

// allowedMethods compares route patterns with path literally; parameterised
// segments are not expanded.
func allowedMethods(router chi.Routes, path string) []string {
	var allowed []string
	_ = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if strings.TrimSuffix(route, "/") == strings.TrimSuffix(path, "/") {
			allowed = append(allowed, method)
		}
		return nil
	})
	sort.Strings(allowed)
	return allowed
}
