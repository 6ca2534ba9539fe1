// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

const fieldSeparator = ":"

// EncodeEnvelope returns the wire form of envelope: the fields joined with
// ':' in their fixed order and base64 encoded.
func EncodeEnvelope(envelope models.EncryptedEnvelope) string {
	fields := []string{envelope.IV, envelope.AuthTag, envelope.Ciphertext}
	if envelope.IsHybrid() {
		fields = append([]string{envelope.WrappedKey}, fields...)
	}
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(fields, fieldSeparator)))
}

// DecodeEnvelope parses the wire form produced by [EncodeEnvelope]. Three
// fields decode to a shared-secret envelope, four to a hybrid one. Field
// encodings are validated later, by the cipher.
func DecodeEnvelope(wire string) (models.EncryptedEnvelope, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(wire))
	if err != nil {
		return models.EncryptedEnvelope{}, fmt.Errorf("%w: payload is not base64: %w", ErrFormat, err)
	}

	fields := strings.Split(string(raw), fieldSeparator)
	for _, f := range fields {
		if f == "" {
			return models.EncryptedEnvelope{}, fmt.Errorf("%w: empty field", ErrFormat)
		}
	}

	switch len(fields) {
	case 3:
		return models.EncryptedEnvelope{
			IV:         fields[0],
			AuthTag:    fields[1],
			Ciphertext: fields[2],
		}, nil
	case 4:
		return models.EncryptedEnvelope{
			WrappedKey: fields[0],
			IV:         fields[1],
			AuthTag:    fields[2],
			Ciphertext: fields[3],
		}, nil
	default:
		return models.EncryptedEnvelope{}, fmt.Errorf("%w: expected 3 or 4 fields, got %d", ErrFormat, len(fields))
	}
}

// EncryptToWire seals plaintext with c and returns the wire form.
func EncryptToWire(c PayloadCipher, plaintext []byte) (string, error) {
	envelope, err := c.Encrypt(plaintext)
	if err != nil {
		return "", err
	}
	return EncodeEnvelope(envelope), nil
}

// DecryptWire decodes wire and opens it with c.
func DecryptWire(c PayloadCipher, wire string) ([]byte, error) {
	envelope, err := DecodeEnvelope(wire)
	if err != nil {
		return nil, err
	}
	return c.Decrypt(envelope)
}
