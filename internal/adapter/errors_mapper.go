// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

// replayMessages are the 400 messages produced by the timestamp and nonce
// stage.
var replayMessages = []string{
	"Request timestamp required",
	"Request nonce required",
	"Invalid timestamp format",
	"Request timestamp expired or too far in future",
	"Request nonce already used (replay attack detected)",
}

// mapEnvelopeError converts a failure envelope into a sentinel error that
// carries the server's message.
func mapEnvelopeError(envelope models.ResponseEnvelope) error {
	if envelope.Success {
		return nil
	}

	message := envelope.Message
	switch envelope.StatusCode {
	case http.StatusBadRequest:
		for _, m := range replayMessages {
			if m == message {
				return fmt.Errorf("%w: %s", ErrReplayRejected, message)
			}
		}
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusMethodNotAllowed:
		return fmt.Errorf("%w: %s", ErrMethodNotAllowed, message)
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %s", ErrPayloadTooLarge, message)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrInternalServerError, message)
	case http.StatusNotImplemented:
		return fmt.Errorf("%w: %s", ErrNotImplemented, message)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrServiceUnavailable, message)
	default:
		if message == "" {
			message = http.StatusText(envelope.StatusCode)
		}
		return fmt.Errorf("http %d: %s", envelope.StatusCode, message)
	}
}

// mapHTTPError handles responses that are not envelopes, e.g. from a proxy
// in front of the server.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s", ErrInvalidEnvelope, http.StatusText(resp.StatusCode()))
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return mapEnvelopeError(models.ResponseEnvelope{StatusCode: resp.StatusCode(), Message: body})
}
