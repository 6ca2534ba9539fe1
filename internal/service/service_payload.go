// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

type payloadService struct {
	cipher crypto.PayloadCipher

	logger *logger.Logger
}

func NewPayloadService(cipher crypto.PayloadCipher, logger *logger.Logger) PayloadService {
	return &payloadService{
		cipher: cipher,
		logger: logger,
	}
}

func (s *payloadService) Mode() crypto.Mode {
	return s.cipher.Mode()
}

func (s *payloadService) ProtocolVersion() string {
	if s.cipher.Mode() == crypto.ModeHybrid {
		return models.ProtocolVersionHybrid
	}
	return models.ProtocolVersion
}

func (s *payloadService) DecryptRequest(body []byte) ([]byte, error) {
	wire, err := extractWire(body)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.DecryptWire(s.cipher, wire)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncryptedPayload, err)
	}
	return plaintext, nil
}

func (s *payloadService) EncryptResponse(data []byte) (string, error) {
	wire, err := crypto.EncryptToWire(s.cipher, data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrResponseEncryption, err)
	}
	return wire, nil
}

// extractWire finds the wire string in a request body. Three shapes are
// accepted: {"payload": "<wire>"}, a JSON string and the bare wire text.
func extractWire(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("%w: empty body", ErrInvalidEncryptedPayload)
	}

	switch trimmed[0] {
	case '{':
		var payload models.EncryptedPayload
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidEncryptedPayload, err)
		}
		if payload.Payload == "" {
			return "", fmt.Errorf("%w: %q field is missing", ErrInvalidEncryptedPayload, models.PayloadField)
		}
		return payload.Payload, nil
	case '"':
		var wire string
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidEncryptedPayload, err)
		}
		return wire, nil
	default:
		return string(trimmed), nil
	}
}
