// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// cacheStatusHeader tells clients whether the data came from the cache.
const cacheStatusHeader = "X-Cache"

// cached serves GET responses of routeID from the route cache. It must run
// inside withEnvelope: a hit replays the stored handler output, which is
// then enveloped and encrypted with a fresh IV like any other response.
// Routes without a cache entry pass through.
func (h *Handler) cached(routeID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ew, buffered := w.(*envelopeWriter)
			if h.services.CacheService == nil || r.Method != http.MethodGet || !buffered {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := h.services.CacheService.Route(routeID); !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			args := cacheArgs(r)

			if hit, ok := h.services.CacheService.Lookup(ctx, routeID, args); ok {
				w.Header().Set(cacheStatusHeader, "HIT")
				if hit.ContentType != "" {
					w.Header().Set("Content-Type", hit.ContentType)
				}
				w.WriteHeader(hit.StatusCode)
				_, _ = w.Write(hit.Body)
				return
			}

			w.Header().Set(cacheStatusHeader, "MISS")
			next.ServeHTTP(w, r)

			if state := pipelineStateFrom(ctx); state != nil && state.failure != nil {
				return
			}
			response := ew.snapshot()
			if response.status < http.StatusOK || response.status >= http.StatusMultipleChoices {
				return
			}
			h.services.CacheService.Store(ctx, routeID, args, models.CachedResponse{
				StatusCode:  response.status,
				ContentType: response.contentType,
				Body:        response.body,
			})
		})
	}
}

// cacheArgs identifies a response: URL params, the first value of every
// query parameter and the authenticated subject.
func cacheArgs(r *http.Request) models.CacheArgs {
	var args models.CacheArgs

	if rctx := chi.RouteContext(r.Context()); rctx != nil && len(rctx.URLParams.Keys) > 0 {
		args.Params = make(map[string]string, len(rctx.URLParams.Keys))
		for i, key := range rctx.URLParams.Keys {
			args.Params[key] = rctx.URLParams.Values[i]
		}
	}

	if query := r.URL.Query(); len(query) > 0 {
		args.Query = make(map[string]string, len(query))
		for key := range query {
			args.Query[key] = query.Get(key)
		}
	}

	args.Subject, _ = utils.GetSubjectFromContext(r.Context())
	return args
}
