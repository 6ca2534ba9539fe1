// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/store"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

const cacheKeyPrefix = "cache:"

type cacheService struct {
	kv     store.KeyValueStore
	routes map[string]models.RouteCache

	logger *logger.Logger
}

// NewCacheService serves the routes declared in cfg. Routes without a TTL
// get cfg.DefaultTTL.
func NewCacheService(kv store.KeyValueStore, cfg config.Cache, logger *logger.Logger) CacheService {
	defaultTTL := cfg.DefaultTTL
	if defaultTTL <= 0 {
		defaultTTL = config.DefaultCacheTTL
	}

	routes := make(map[string]models.RouteCache, len(cfg.Routes))
	for id, route := range cfg.Routes {
		if route.KeyPrefix == "" {
			route.KeyPrefix = id
		}
		if route.TTL <= 0 {
			route.TTL = defaultTTL
		}
		routes[id] = route
	}

	return &cacheService{
		kv:     kv,
		routes: routes,
		logger: logger,
	}
}

func (s *cacheService) Route(routeID string) (models.RouteCache, bool) {
	route, ok := s.routes[routeID]
	return route, ok
}

func (s *cacheService) Lookup(ctx context.Context, routeID string, args models.CacheArgs) (models.CachedResponse, bool) {
	log := logger.FromContext(ctx)

	key, ok := s.key(routeID, args)
	if !ok {
		return models.CachedResponse{}, false
	}

	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrKeyNotFound) {
			log.Warn().Err(err).Str("key", key).Msg("cache lookup failed, treating as miss")
		}
		return models.CachedResponse{}, false
	}

	var response models.CachedResponse
	if err = json.Unmarshal(raw, &response); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cached entry is corrupt, treating as miss")
		return models.CachedResponse{}, false
	}

	log.Debug().Str("key", key).Msg("cache hit")
	return response, true
}

func (s *cacheService) Store(ctx context.Context, routeID string, args models.CacheArgs, response models.CachedResponse) {
	log := logger.FromContext(ctx)

	key, ok := s.key(routeID, args)
	if !ok {
		return
	}

	raw, err := json.Marshal(response)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("response could not be cached")
		return
	}

	if err = s.kv.Set(ctx, key, raw, s.routes[routeID].TTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("response could not be cached")
	}
}

// key renders cache:<prefix>:<args>. Map keys marshal in sorted order, so
// equal args always produce the same key.
func (s *cacheService) key(routeID string, args models.CacheArgs) (string, bool) {
	route, ok := s.routes[routeID]
	if !ok {
		return "", false
	}

	encoded, err := json.Marshal(args)
	if err != nil {
		s.logger.Warn().Err(err).Str("route", routeID).Msg("cache args could not be encoded")
		return "", false
	}
	return fmt.Sprintf("%s%s:%s", cacheKeyPrefix, route.KeyPrefix, encoded), true
}
