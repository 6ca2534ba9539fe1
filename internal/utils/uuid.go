// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// UUIDGenerator produces time-ordered identifiers for trace ids, audit
// events and session ids.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7, falling back to v4 if the clock source fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// NewNonce returns a single-use request nonce: a UUIDv4 followed by 16 hex
// characters of extra randomness.
func NewNonce() string {
	var extra [8]byte
	_, _ = rand.Read(extra[:])
	return uuid.NewString() + "-" + hex.EncodeToString(extra[:])
}
