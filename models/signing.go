// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SigningContext holds every request component covered by the request
// signature. It is built per request and discarded once verification ends.
type SigningContext struct {
	// Method is the upper-case HTTP method.
	Method string

	// PathCandidates lists the path representations the signature may have
	// been computed over, most normalized first. Never empty, at most three
	// entries.
	PathCandidates []string

	// Timestamp is the client clock in epoch milliseconds taken from the
	// x-timestamp header.
	Timestamp int64

	// Nonce is the opaque single-use value from the x-nonce header.
	Nonce string

	// Body is the exact request body as received, or "" when absent.
	Body string
}

// NonceRecord is stored under "nonce:<Nonce>" the first time a nonce is seen.
// Its presence is the replay signal; a record is never updated.
type NonceRecord struct {
	Nonce       string `json:"nonce"`
	FirstSeenAt int64  `json:"firstSeenAt"`
	SourceIP    string `json:"ip"`
	Path        string `json:"path"`
	Method      string `json:"method"`
}

// RequestMeta carries request attributes used for nonce records and security
// diagnostics.
type RequestMeta struct {
	Method string

	// Path is the routed request path without the query.
	Path string

	// OriginalURL is the request URI as received, query included.
	OriginalURL string

	SourceIP  string
	TraceID   string
	UserAgent string
}
