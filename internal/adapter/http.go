// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// Config configures a [SecureClient].
type Config struct {
	// BaseURL is the server address, e.g. http://localhost:8080. A missing
	// scheme defaults to http.
	BaseURL string

	// Secret is the shared HMAC secret.
	Secret string

	// Cipher encrypts request bodies and opens encrypted responses. nil
	// sends plaintext bodies.
	Cipher crypto.PayloadCipher

	Timeout time.Duration
}

type httpSecureClient struct {
	client *utils.HTTPClient

	secret string
	cipher crypto.PayloadCipher
	now    func() time.Time

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewSecureClient constructs an HTTP implementation of [SecureClient].
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed, or if no
// secret is configured.
func NewSecureClient(cfg Config, logger *logger.Logger) (SecureClient, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("empty signing secret")
	}

	return &httpSecureClient{
		client: utils.NewHTTPClient(baseURL, cfg.Timeout),
		secret: cfg.Secret,
		cipher: cfg.Cipher,
		now:    time.Now,
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [SecureClient].
func (c *httpSecureClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// Token implements [SecureClient].
func (c *httpSecureClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Do implements [SecureClient].
func (c *httpSecureClient) Do(ctx context.Context, method, path string, body, out any) error {
	method = strings.ToUpper(method)

	plaintext, err := encodeBody(body)
	if err != nil {
		return err
	}

	prepared, err := prepareRequest(method, path, plaintext, c.cipher, c.secret, c.now())
	if err != nil {
		return err
	}

	req := c.client.R().SetContext(ctx)
	for name := range prepared.header {
		req.SetHeader(name, prepared.header.Get(name))
	}
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	if len(prepared.body) > 0 {
		req.SetBody(prepared.body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s request: %w", method, path, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Str("trace_id", resp.Header().Get(models.HeaderTraceID)).
		Msg("secure request sent")

	var envelope models.ResponseEnvelope
	if err = json.Unmarshal(resp.Body(), &envelope); err != nil || envelope.StatusCode == 0 {
		return mapHTTPError(resp)
	}
	if err = mapEnvelopeError(envelope); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	data, err := openData(envelope, c.cipher)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
