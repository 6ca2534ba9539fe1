// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the secure pipeline server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier fields):
//  1. Built-in defaults
//  2. JSON config file
//  3. Environment variables, optionally loaded from a .env file
//  4. Command-line flags
//
// Cache routes may additionally be declared in a YAML file. The main entry
// point is [GetStructuredConfig].
package config
