// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// RouteCache describes how responses of one route are cached.
type RouteCache struct {
	// KeyPrefix namespaces the route's entries: cache:<KeyPrefix>:<args>.
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`

	// TTL bounds the lifetime of a cached entry.
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// CacheArgs identify one cached response within a route.
type CacheArgs struct {
	Params  map[string]string `json:"params,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
	Subject string            `json:"user,omitempty"`
}

// CachedResponse is the handler output stored by the route cache. It is
// stored before the response envelope is applied, so cached data is
// encrypted with a fresh IV on every hit.
type CachedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}
