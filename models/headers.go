// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Security headers exchanged between the mobile client and the pipeline.
const (
	// HeaderSignature contains base64(HMAC-SHA256(signing string)).
	HeaderSignature = "X-Signature"

	// HeaderTimestamp contains the client time in decimal epoch milliseconds.
	HeaderTimestamp = "X-Timestamp"

	// HeaderNonce contains a single-use random token.
	HeaderNonce = "X-Nonce"

	// HeaderEncrypted is set to the literal "true" when the body is an
	// encrypted payload.
	HeaderEncrypted = "X-Encrypted"

	// HeaderTraceID correlates client requests with server logs.
	HeaderTraceID = "X-Trace-ID"
)

// EncryptedHeaderValue is the only value of [HeaderEncrypted] that marks a
// body as encrypted.
const EncryptedHeaderValue = "true"

// PayloadField is the JSON field carrying the wire form of an encrypted body.
const PayloadField = "payload"

// EncryptedPayload is the JSON request body sent in encrypted mode.
type EncryptedPayload struct {
	Payload string `json:"payload"`
}
