// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"

	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	myGRPC "github.com/MKhiriev/go-secure-pipeline/internal/handler/grpc"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
)

type grpcServer struct {
	handler *myGRPC.Handler

	address         string
	server          *grpc.Server
	shutdownTimeout time.Duration

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer()
	handler.Register(server)

	return &grpcServer{
		handler:         handler,
		address:         cfg.GRPCAddress,
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

func (g *grpcServer) serve(lis net.Listener) error {
	g.logger.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")
	if err := g.server.Serve(lis); err != nil {
		return fmt.Errorf("gRPC server Serve: %w", err)
	}
	return nil
}

// shutdown marks the health service NOT_SERVING, then drains in-flight
// RPCs. Watch streams never end on their own, so the drain is bounded.
func (g *grpcServer) shutdown() {
	g.logger.Info().Msg("gRPC server Shutdown")
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(g.shutdownTimeout):
		g.logger.Warn().Msg("gRPC graceful stop timed out, forcing")
		g.server.Stop()
	}
}
