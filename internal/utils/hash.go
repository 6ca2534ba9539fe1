// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA-256 digest of data. Audit events
// use it to identify a request body without storing the body.
//
// Example usage:
//
//	digest := utils.SHA256Hex([]byte(`{"phoneNumber":"+919876543210"}`))
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
