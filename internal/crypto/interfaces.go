// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "github.com/MKhiriev/go-secure-pipeline/models"

// Mode selects the payload encryption scheme. The two modes are wire
// incompatible and a server runs exactly one of them.
type Mode string

const (
	// ModeShared derives a single AES-256 key from a shared secret.
	ModeShared Mode = "shared"

	// ModeHybrid seals every message under a fresh AES-256 key that is
	// wrapped with the recipient's RSA public key.
	ModeHybrid Mode = "hybrid"
)

// PayloadCipher encrypts and decrypts JSON payloads exchanged with clients.
//
// Implementations are stateless apart from their key material and are safe
// for concurrent use.
type PayloadCipher interface {
	// Mode reports which scheme the cipher implements.
	Mode() Mode

	// Encrypt seals plaintext under a fresh random IV.
	Encrypt(plaintext []byte) (models.EncryptedEnvelope, error)

	// Decrypt opens an envelope. It returns [ErrFormat] for structurally
	// invalid envelopes and [ErrIntegrity] when authentication fails; no
	// plaintext is returned on error.
	Decrypt(envelope models.EncryptedEnvelope) ([]byte, error)
}
