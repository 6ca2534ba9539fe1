// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// IVSize is the GCM nonce length used on the wire. It is longer than the
	// 12-byte GCM default, so the AEAD is built with NewGCMWithNonceSize.
	IVSize = 16

	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16
)

// newGCM builds an AES-256-GCM AEAD with a 16-byte nonce.
func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: aes key must be %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: create cipher: %w", ErrInvalidKey, err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// seal encrypts plaintext under key with a fresh random IV and splits the
// GCM output into ciphertext and tag. WrappedKey is left empty.
func seal(key, plaintext []byte) (models.EncryptedEnvelope, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return models.EncryptedEnvelope{}, err
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return models.EncryptedEnvelope{}, fmt.Errorf("generate iv: %w", err)
	}

	sealed := gcm.Seal(nil, iv, plaintext, nil)
	ciphertext, tag := sealed[:len(sealed)-TagSize], sealed[len(sealed)-TagSize:]

	return models.EncryptedEnvelope{
		IV:         hex.EncodeToString(iv),
		AuthTag:    hex.EncodeToString(tag),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// open reverses seal. Encoding problems are reported as ErrFormat, a failed
// tag check as ErrIntegrity.
func open(key []byte, envelope models.EncryptedEnvelope) ([]byte, error) {
	iv, err := hex.DecodeString(envelope.IV)
	if err != nil || len(iv) != IVSize {
		return nil, fmt.Errorf("%w: iv must be %d hex encoded bytes", ErrFormat, IVSize)
	}

	tag, err := hex.DecodeString(envelope.AuthTag)
	if err != nil || len(tag) != TagSize {
		return nil, fmt.Errorf("%w: auth tag must be %d hex encoded bytes", ErrFormat, TagSize)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext is not base64: %w", ErrFormat, err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ciphertext)+TagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	return plaintext, nil
}
