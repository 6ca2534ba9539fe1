// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// Protocol versions reported in every [ResponseEnvelope]. The server runs in
// exactly one encryption mode, and the version tells clients which one.
const (
	// ProtocolVersion is reported when payloads use shared-secret AES-GCM.
	ProtocolVersion = "1.0"

	// ProtocolVersionHybrid is reported when payloads use RSA-wrapped
	// per-message AES keys.
	ProtocolVersionHybrid = "1.0-hybrid"
)

// EncryptedEnvelope is the decoded form of an encrypted payload.
//
// On the wire the fields are joined with ':' in a fixed order and the result
// is base64 encoded:
//
//	shared-secret: base64(IV:AuthTag:Ciphertext)
//	hybrid:        base64(WrappedKey:IV:AuthTag:Ciphertext)
//
// WrappedKey is empty in shared-secret mode. An envelope produced in one mode
// can never be opened in the other.
type EncryptedEnvelope struct {
	// WrappedKey is the base64 RSA-OAEP(SHA-256) encryption of the
	// per-message AES key. Hybrid mode only.
	WrappedKey string

	// IV is the hex encoded 16-byte GCM nonce.
	IV string

	// AuthTag is the hex encoded 16-byte GCM authentication tag.
	AuthTag string

	// Ciphertext is the base64 encoded ciphertext without the tag.
	Ciphertext string
}

// IsHybrid reports whether the envelope carries a wrapped key.
func (e EncryptedEnvelope) IsHybrid() bool {
	return e.WrappedKey != ""
}

// ResponseEnvelope is the uniform JSON body returned for every request,
// successful or not.
type ResponseEnvelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`

	// Data is the handler result. When Encrypted is true it holds the wire
	// form of an [EncryptedEnvelope] as a JSON string; on failure it is null.
	Data json.RawMessage `json:"data"`

	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
	Encrypted bool   `json:"encrypted"`
	Version   string `json:"version"`
}

// EnvelopeTimeLayout renders timestamps as ISO-8601 with millisecond
// precision in UTC, e.g. 2026-10-15T08:30:00.000Z.
const EnvelopeTimeLayout = "2006-01-02T15:04:05.000Z07:00"
