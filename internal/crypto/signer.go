// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

// MaxPathCandidates bounds the number of path representations a signature
// is checked against.
const MaxPathCandidates = 3

const signingSeparator = "|"

// apiVersionPrefix matches a leading /api/v<N> segment.
var apiVersionPrefix = regexp.MustCompile(`^/api/v\d+(?:/|$)`)

// BuildSigningString returns METHOD|PATH|TIMESTAMP|NONCE|BODY. Clients depend
// on the exact layout, so it must never change.
func BuildSigningString(method, path string, timestamp int64, nonce, body string) string {
	return strings.Join([]string{
		strings.ToUpper(method),
		path,
		strconv.FormatInt(timestamp, 10),
		nonce,
		body,
	}, signingSeparator)
}

// Sign returns base64(HMAC-SHA256(secret, signingString)).
func Sign(signingString, secret string) string {
	return base64.StdEncoding.EncodeToString(mac([]byte(secret), signingString))
}

// Verify reports whether candidate is the signature of signingString under
// secret. The MAC bytes are compared in constant time.
func Verify(candidate, signingString, secret string) bool {
	return verify([]byte(secret), candidate, signingString)
}

func mac(secret []byte, signingString string) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(signingString))
	return h.Sum(nil)
}

func verify(secret []byte, candidate, signingString string) bool {
	presented, err := base64.StdEncoding.DecodeString(candidate)
	if err != nil {
		return false
	}
	return hmac.Equal(presented, mac(secret, signingString))
}

// SigningPaths returns the path candidates for a request, most normalized
// first: the original path without the /api/v<N> prefix, the original path
// without its query, and the path as routed. Duplicates are dropped.
func SigningPaths(requestURI, routedPath string) []string {
	original := requestURI
	if i := strings.IndexByte(original, '?'); i >= 0 {
		original = original[:i]
	}
	if original == "" {
		original = routedPath
	}

	stripped := original
	if loc := apiVersionPrefix.FindStringIndex(original); loc != nil {
		stripped = "/" + original[loc[1]:]
	}

	candidates := make([]string, 0, MaxPathCandidates)
	for _, p := range []string{stripped, original, routedPath} {
		if p == "" {
			continue
		}
		seen := false
		for _, c := range candidates {
			if c == p {
				seen = true
				break
			}
		}
		if !seen {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, "/")
	}
	return candidates
}

// Signer signs and verifies requests with one shared secret.
type Signer struct {
	secret []byte
}

// NewSigner returns a Signer bound to secret.
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: signing secret is empty", ErrInvalidKey)
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign signs the context over its first path candidate.
func (s *Signer) Sign(sc models.SigningContext) string {
	path := "/"
	if len(sc.PathCandidates) > 0 {
		path = sc.PathCandidates[0]
	}
	return base64.StdEncoding.EncodeToString(mac(s.secret, BuildSigningString(sc.Method, path, sc.Timestamp, sc.Nonce, sc.Body)))
}

// VerifyAny checks signature against every path candidate in order and
// returns the first one that matches. At most [MaxPathCandidates] are tried.
func (s *Signer) VerifyAny(sc models.SigningContext, signature string) (string, bool) {
	for i, path := range sc.PathCandidates {
		if i == MaxPathCandidates {
			break
		}
		if verify(s.secret, signature, BuildSigningString(sc.Method, path, sc.Timestamp, sc.Nonce, sc.Body)) {
			return path, true
		}
	}
	return "", false
}

// Fingerprint identifies the secret in diagnostics without revealing it: the
// first 8 hex characters of SHA-256(secret).
func (s *Signer) Fingerprint() string {
	sum := sha256.Sum256(s.secret)
	return hex.EncodeToString(sum[:])[:8]
}
