// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

// hybridCipher is the [PayloadCipher] for [ModeHybrid]. Every message is
// sealed under its own random AES key; only that key is RSA encrypted.
type hybridCipher struct {
	// private unwraps keys of inbound messages.
	private *rsa.PrivateKey

	// peer wraps keys of outbound messages.
	peer *rsa.PublicKey
}

// NewHybridCipher returns a cipher that decrypts with private and encrypts
// for peer. Either key may be nil when the cipher is used in one direction
// only, e.g. by a client that never receives hybrid payloads.
func NewHybridCipher(private *rsa.PrivateKey, peer *rsa.PublicKey) (PayloadCipher, error) {
	if private == nil && peer == nil {
		return nil, fmt.Errorf("%w: hybrid mode needs a private or a peer public key", ErrInvalidKey)
	}
	return &hybridCipher{private: private, peer: peer}, nil
}

func (c *hybridCipher) Mode() Mode {
	return ModeHybrid
}

func (c *hybridCipher) Encrypt(plaintext []byte) (models.EncryptedEnvelope, error) {
	if c.peer == nil {
		return models.EncryptedEnvelope{}, fmt.Errorf("%w: no peer public key configured", ErrInvalidKey)
	}

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return models.EncryptedEnvelope{}, fmt.Errorf("generate message key: %w", err)
	}

	envelope, err := seal(key, plaintext)
	if err != nil {
		return models.EncryptedEnvelope{}, err
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, c.peer, key, nil)
	if err != nil {
		return models.EncryptedEnvelope{}, fmt.Errorf("wrap message key: %w", err)
	}
	envelope.WrappedKey = base64.StdEncoding.EncodeToString(wrapped)

	return envelope, nil
}

func (c *hybridCipher) Decrypt(envelope models.EncryptedEnvelope) ([]byte, error) {
	if !envelope.IsHybrid() {
		return nil, fmt.Errorf("%w: wrapped key missing in hybrid mode", ErrFormat)
	}
	if c.private == nil {
		return nil, fmt.Errorf("%w: no private key configured", ErrInvalidKey)
	}

	wrapped, err := base64.StdEncoding.DecodeString(envelope.WrappedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: wrapped key is not base64: %w", ErrFormat, err)
	}

	key, err := rsa.DecryptOAEP(sha256.New(), nil, c.private, wrapped, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: unwrap message key: %w", ErrIntegrity, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: unwrapped key has %d bytes", ErrIntegrity, len(key))
	}

	return open(key, envelope)
}
