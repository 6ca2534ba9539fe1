// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/handler"
	"github.com/MKhiriev/go-secure-pipeline/internal/handler/http"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
)

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer

	shutdownOnce sync.Once
	logger       *logger.Logger
}

// NewServer creates a server for every handler in handlers. routes are
// mounted behind the HTTP pipeline.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger, routes ...http.RouteRegistrar) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{logger: logger}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = config.DefaultShutdownTimeout
	}

	if handlers.HTTP != nil && cfg.HTTPAddress != "" {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(routes...), cfg, logger)
	}
	if handlers.GRPC != nil && cfg.GRPCAddress != "" {
		servers.gRPCServer = newGRPCServer(handlers.GRPC, cfg, logger)
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	return servers, nil
}

func (s *server) Shutdown() {
	s.shutdownOnce.Do(func() {
		// finish HTTP server first so no request outlives the health status
		if s.httpServer != nil {
			s.httpServer.shutdown()
		}
		if s.gRPCServer != nil {
			s.gRPCServer.shutdown()
		}
	})
}

func (s *server) Run(ctx context.Context) error {
	if s.httpServer == nil && s.gRPCServer == nil {
		return errors.New("no servers to run")
	}

	// listen before serving so address errors surface immediately
	var httpLis, grpcLis net.Listener
	var err error
	if s.httpServer != nil {
		if httpLis, err = net.Listen("tcp", s.httpServer.server.Addr); err != nil {
			return fmt.Errorf("error listening on HTTP address: %w", err)
		}
	}
	if s.gRPCServer != nil {
		if grpcLis, err = net.Listen("tcp", s.gRPCServer.address); err != nil {
			if httpLis != nil {
				_ = httpLis.Close()
			}
			return fmt.Errorf("error listening on gRPC address: %w", err)
		}
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	if s.httpServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.httpServer.serve(httpLis)
		}()
	}
	if s.gRPCServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.gRPCServer.serve(grpcLis)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errs:
	}

	s.Shutdown()
	wg.Wait()

	s.logger.Info().Msg("server Shutdown gracefully")
	return runErr
}
