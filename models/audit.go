// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// AuditEventKind classifies a security event.
type AuditEventKind string

const (
	// AuditInvalidSignature is recorded when no path candidate produced the
	// presented signature.
	AuditInvalidSignature AuditEventKind = "invalid_signature"

	// AuditReplayedNonce is recorded when a nonce is presented a second time
	// within its TTL.
	AuditReplayedNonce AuditEventKind = "replayed_nonce"
)

// AuditEvent is the server-side diagnostic record of a rejected request.
//
// It may contain expected signatures and a fingerprint of the shared secret,
// so it is only ever written to the audit sink and never returned to a client.
// The secret itself never appears in an event.
type AuditEvent struct {
	ID        string         `json:"id"`
	Kind      AuditEventKind `json:"kind"`
	TraceID   string         `json:"trace_id,omitempty"`
	Method    string         `json:"method"`
	URL       string         `json:"url"`
	SourceIP  string         `json:"source_ip,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	Nonce     string         `json:"nonce,omitempty"`
	Timestamp int64          `json:"timestamp,omitempty"`

	// PathsTried lists the path candidates in verification order.
	PathsTried []string `json:"paths_tried,omitempty"`

	// BodySHA256 is the hex SHA-256 of the signed body; the body itself is
	// not stored.
	BodySHA256 string `json:"body_sha256,omitempty"`

	ReceivedSignature string `json:"received_signature,omitempty"`

	// ExpectedSignature is computed over the most normalized path candidate.
	ExpectedSignature string `json:"expected_signature,omitempty"`

	// SecretFingerprint is a short hex prefix of SHA-256(secret).
	SecretFingerprint string `json:"secret_fingerprint,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
