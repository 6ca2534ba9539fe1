// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/internal/service"
	"github.com/MKhiriev/go-secure-pipeline/internal/store"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
)

const messageInternalError = "Internal server error"

type errorMapping struct {
	target  error
	status  int
	message string
}

// errorMappings is checked in order: the first target that matches wins. A
// wrapped chain may match several targets, e.g. an invalid payload carries
// both service.ErrInvalidEncryptedPayload and crypto.ErrIntegrity.
var errorMappings = []errorMapping{
	{service.ErrMissingTimestamp, http.StatusBadRequest, "Request timestamp required"},
	{service.ErrMissingNonce, http.StatusBadRequest, "Request nonce required"},
	{service.ErrInvalidNonceFormat, http.StatusBadRequest, "Invalid nonce format"},
	{service.ErrInvalidTimestampFormat, http.StatusBadRequest, "Invalid timestamp format"},
	{service.ErrStaleOrFutureTimestamp, http.StatusBadRequest, "Request timestamp expired or too far in future"},
	{service.ErrReplayedNonce, http.StatusBadRequest, "Request nonce already used (replay attack detected)"},

	{service.ErrMissingSecurityHeaders, http.StatusUnauthorized, "Missing security headers"},
	{service.ErrInvalidSignature, http.StatusUnauthorized, "Invalid request signature"},

	{service.ErrEncryptionRequired, http.StatusBadRequest, "Encryption required for this endpoint"},
	{service.ErrInvalidEncryptedPayload, http.StatusBadRequest, "Invalid encrypted payload"},
	{crypto.ErrIntegrity, http.StatusBadRequest, "Invalid encrypted payload"},
	{crypto.ErrFormat, http.StatusBadRequest, "Invalid encrypted payload"},
	{service.ErrResponseEncryption, http.StatusInternalServerError, messageInternalError},

	{ErrEmptyAuthorizationHeader, http.StatusUnauthorized, "Authorization required"},
	{ErrInvalidAuthorizationHeader, http.StatusUnauthorized, "Invalid authorization header"},
	{service.ErrSessionInvalid, http.StatusUnauthorized, "Invalid or expired session"},
	{service.ErrSessionDisabled, http.StatusNotImplemented, "Sessions are not configured"},

	{utils.ErrBodyTooLarge, http.StatusRequestEntityTooLarge, "Request body too large"},
	{ErrInvalidJSON, http.StatusBadRequest, "Invalid JSON"},
	{service.ErrInvalidDataProvided, http.StatusBadRequest, "Invalid data provided"},
	{ErrRouteNotFound, http.StatusNotFound, "Route not found"},
	{ErrMethodNotAllowed, http.StatusMethodNotAllowed, "Method not allowed"},

	{store.ErrUnavailable, http.StatusServiceUnavailable, "Service temporarily unavailable"},
}

func lookupError(err error) (errorMapping, bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m, true
		}
	}
	return errorMapping{}, false
}

// statusFromError returns the HTTP status for err, 500 when unknown.
func statusFromError(err error) int {
	if m, ok := lookupError(err); ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// publicMessage is the only text of err a client ever sees. Wrapped detail
// stays in the log.
func publicMessage(err error) string {
	if m, ok := lookupError(err); ok {
		return m.message
	}
	return messageInternalError
}
