// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/mock"
)

func newTestGuardedStore(t *testing.T, cfg config.Storage) (KeyValueStore, *mock.MockKeyValueStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	next := mock.NewMockKeyValueStore(ctrl)
	return NewGuardedStore(next, cfg, logger.Nop()), next
}

func TestGuardedStore_PassThrough(t *testing.T) {
	ctx := context.Background()
	s, next := newTestGuardedStore(t, config.Storage{})

	next.EXPECT().Get(gomock.Any(), "k").Return([]byte("v"), nil)
	next.EXPECT().SetIfAbsent(gomock.Any(), "nonce:n", []byte("r"), 600*time.Second).Return(true, nil)
	next.EXPECT().Set(gomock.Any(), "k", []byte("v"), time.Minute).Return(nil)
	next.EXPECT().Del(gomock.Any(), "k").Return(nil)
	next.EXPECT().Ping(gomock.Any()).Return(nil)
	next.EXPECT().Close().Return(nil)

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	ok, err := s.SetIfAbsent(ctx, "nonce:n", []byte("r"), 600*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, s.Del(ctx, "k"))
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())
}

func TestGuardedStore_NotFoundDoesNotTrip(t *testing.T) {
	ctx := context.Background()
	s, next := newTestGuardedStore(t, config.Storage{Breaker: config.Breaker{MaxFailures: 2}})

	next.EXPECT().Get(gomock.Any(), "missing").Return(nil, ErrKeyNotFound).Times(5)
	next.EXPECT().Ping(gomock.Any()).Return(nil)

	for i := 0; i < 5; i++ {
		_, err := s.Get(ctx, "missing")
		require.ErrorIs(t, err, ErrKeyNotFound)
		require.NotErrorIs(t, err, ErrUnavailable)
	}
	require.NoError(t, s.Ping(ctx))
}

func TestGuardedStore_FailuresOpenBreaker(t *testing.T) {
	ctx := context.Background()
	s, next := newTestGuardedStore(t, config.Storage{
		Breaker: config.Breaker{MaxFailures: 3, OpenTimeout: time.Hour},
	})

	boom := errors.New("connection refused")
	next.EXPECT().SetIfAbsent(gomock.Any(), "nonce:x", gomock.Any(), gomock.Any()).Return(false, boom).Times(3)

	for i := 0; i < 3; i++ {
		_, err := s.SetIfAbsent(ctx, "nonce:x", []byte("r"), time.Minute)
		require.ErrorIs(t, err, ErrUnavailable)
		require.ErrorIs(t, err, boom)
	}

	// the breaker is open: the wrapped store is not called again
	_, err := s.SetIfAbsent(ctx, "nonce:x", []byte("r"), time.Minute)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "circuit breaker")
}

func TestGuardedStore_Timeout(t *testing.T) {
	ctx := context.Background()
	s, next := newTestGuardedStore(t, config.Storage{OperationTimeout: 20 * time.Millisecond})

	next.EXPECT().Get(gomock.Any(), "slow").DoAndReturn(func(ctx context.Context, _ string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	start := time.Now()
	_, err := s.Get(ctx, "slow")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGuardedStore_CallerCancellationDoesNotAbandonWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, next := newTestGuardedStore(t, config.Storage{})
	next.EXPECT().SetIfAbsent(gomock.Any(), "nonce:gone", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ []byte, _ time.Duration) (bool, error) {
			assert.NoError(t, ctx.Err(), "store call must not inherit the client's cancellation")
			return true, nil
		})

	ok, err := s.SetIfAbsent(ctx, "nonce:gone", []byte("r"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
