// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

// cacheRoutesFile is the YAML shape of the cache routes file:
//
//	default_ttl: 5m
//	routes:
//	  version:
//	    key_prefix: app-version
//	    ttl: 1m
type cacheRoutesFile struct {
	DefaultTTL time.Duration                `yaml:"default_ttl"`
	Routes     map[string]models.RouteCache `yaml:"routes"`
}

// parseCacheRoutesYAML reads the cache routes file. Unknown keys are
// rejected so a typo does not silently disable caching.
func parseCacheRoutesYAML(path string) (Cache, error) {
	f, err := os.Open(path)
	if err != nil {
		return Cache{}, fmt.Errorf("error reading cache routes file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var file cacheRoutesFile
	if err := dec.Decode(&file); err != nil {
		return Cache{}, fmt.Errorf("error decoding cache routes file: %w", err)
	}

	for id, route := range file.Routes {
		if route.KeyPrefix == "" {
			route.KeyPrefix = id
			file.Routes[id] = route
		}
	}

	return Cache{DefaultTTL: file.DefaultTTL, Routes: file.Routes}, nil
}
