// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
)

// Defaults applied when the corresponding config value is zero.
const (
	DefaultOperationTimeout  = 2 * time.Second
	DefaultBreakerFailures   = 5
	DefaultBreakerOpenPeriod = 10 * time.Second
)

// guardedStore bounds every call to the wrapped store:
//   - the call runs on a context detached from the caller's cancellation, so
//     a client disconnect never abandons a half-done write;
//   - the call is limited by the operation timeout;
//   - consecutive failures open a circuit breaker that rejects calls until
//     the store recovers.
//
// Every infrastructure failure surfaces as [ErrUnavailable].
type guardedStore struct {
	next    KeyValueStore
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
}

// NewGuardedStore wraps next with the timeout and circuit breaker described
// by cfg.
func NewGuardedStore(next KeyValueStore, cfg config.Storage, log *logger.Logger) KeyValueStore {
	timeout := cfg.OperationTimeout
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	failures := cfg.Breaker.MaxFailures
	if failures == 0 {
		failures = DefaultBreakerFailures
	}
	openPeriod := cfg.Breaker.OpenTimeout
	if openPeriod <= 0 {
		openPeriod = DefaultBreakerOpenPeriod
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kv-store",
		MaxRequests: 1,
		Timeout:     openPeriod,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
		// a missing key or an occupied nonce slot is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrKeyNotFound)
		},
	})

	return &guardedStore{next: next, timeout: timeout, breaker: breaker}
}

// do runs fn through the breaker on a detached, time-bounded context.
func (s *guardedStore) do(ctx context.Context, op string, fn func(ctx context.Context) (any, error)) (any, error) {
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	result, err := s.breaker.Execute(func() (any, error) {
		return fn(opCtx)
	})
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, ErrKeyNotFound):
		return nil, err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("%w: %s: circuit breaker %s", ErrUnavailable, op, s.breaker.State())
	default:
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
	}
}

func (s *guardedStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.do(ctx, "get", func(ctx context.Context) (any, error) {
		return s.next.Get(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (s *guardedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.do(ctx, "set", func(ctx context.Context) (any, error) {
		return nil, s.next.Set(ctx, key, value, ttl)
	})
	return err
}

func (s *guardedStore) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	result, err := s.do(ctx, "set if absent", func(ctx context.Context) (any, error) {
		return s.next.SetIfAbsent(ctx, key, value, ttl)
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (s *guardedStore) Del(ctx context.Context, key string) error {
	_, err := s.do(ctx, "del", func(ctx context.Context) (any, error) {
		return nil, s.next.Del(ctx, key)
	})
	return err
}

func (s *guardedStore) Ping(ctx context.Context) error {
	_, err := s.do(ctx, "ping", func(ctx context.Context) (any, error) {
		return nil, s.next.Ping(ctx)
	})
	return err
}

func (s *guardedStore) Close() error {
	return s.next.Close()
}
