// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"
	"fmt"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

// sharedSecretCipher is the [PayloadCipher] for [ModeShared].
type sharedSecretCipher struct {
	key []byte
}

// NewSharedSecretCipher derives the AES-256 key from secret and returns a
// cipher bound to it. Both sides of the connection derive the same key, so
// no key exchange is needed.
func NewSharedSecretCipher(secret string) (PayloadCipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: shared secret is empty", ErrInvalidKey)
	}
	return &sharedSecretCipher{key: DeriveKey(secret)}, nil
}

// DeriveKey returns SHA-256 of the UTF-8 secret.
func DeriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

func (c *sharedSecretCipher) Mode() Mode {
	return ModeShared
}

func (c *sharedSecretCipher) Encrypt(plaintext []byte) (models.EncryptedEnvelope, error) {
	return seal(c.key, plaintext)
}

// Decrypt refuses hybrid envelopes: a payload sealed in one mode is never
// opened in the other.
func (c *sharedSecretCipher) Decrypt(envelope models.EncryptedEnvelope) ([]byte, error) {
	if envelope.IsHybrid() {
		return nil, fmt.Errorf("%w: wrapped key present in shared-secret mode", ErrFormat)
	}
	return open(c.key, envelope)
}
