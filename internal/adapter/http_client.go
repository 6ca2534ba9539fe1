// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// outgoing is a request ready to be sent: the exact body bytes and the
// headers that authenticate them.
type outgoing struct {
	body   []byte
	header http.Header
}

// encodeBody serializes body. nil yields an empty body.
func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	case json.RawMessage:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return data, nil
	}
}

// prepareRequest encrypts plaintext when cipher is set, then stamps and
// signs the result. The signature covers the most normalized path, the
// one every server-side candidate list starts with.
func prepareRequest(method, path string, plaintext []byte, cipher crypto.PayloadCipher, secret string, now time.Time) (outgoing, error) {
	header := http.Header{}
	body := plaintext

	if cipher != nil && len(plaintext) > 0 {
		wire, err := crypto.EncryptToWire(cipher, plaintext)
		if err != nil {
			return outgoing{}, fmt.Errorf("encrypt request body: %w", err)
		}
		body, err = json.Marshal(models.EncryptedPayload{Payload: wire})
		if err != nil {
			return outgoing{}, fmt.Errorf("encode encrypted payload: %w", err)
		}
		header.Set(models.HeaderEncrypted, models.EncryptedHeaderValue)
	}
	if len(body) > 0 {
		header.Set("Content-Type", "application/json")
	}

	timestamp := now.UnixMilli()
	nonce := utils.NewNonce()
	signPath := crypto.SigningPaths(path, "")[0]

	header.Set(models.HeaderTimestamp, strconv.FormatInt(timestamp, 10))
	header.Set(models.HeaderNonce, nonce)
	header.Set(models.HeaderSignature, crypto.Sign(crypto.BuildSigningString(method, signPath, timestamp, nonce, string(body)), secret))

	return outgoing{body: body, header: header}, nil
}

// openData returns the plaintext JSON of envelope's data.
func openData(envelope models.ResponseEnvelope, cipher crypto.PayloadCipher) ([]byte, error) {
	if !envelope.Encrypted {
		return envelope.Data, nil
	}
	if cipher == nil {
		return nil, ErrNoCipher
	}

	var wire string
	if err := json.Unmarshal(envelope.Data, &wire); err != nil {
		return nil, fmt.Errorf("%w: encrypted data is not a string: %w", ErrInvalidEnvelope, err)
	}
	plaintext, err := crypto.DecryptWire(cipher, wire)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}
	return plaintext, nil
}
