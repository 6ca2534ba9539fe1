// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-secure-pipeline/internal/app"
	"github.com/MKhiriev/go-secure-pipeline/internal/config"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(build)

	log := logger.NewLogger("secure-pipeline-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	application, err := app.NewApp(ctx, cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init server app error")
	}

	if err = application.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server run error")
	}
	log.Info().Msg("server stopped")
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", build.BuildVersion())
	fmt.Printf("Build date: %s\n", build.BuildDate())
	fmt.Printf("Build commit: %s\n", build.BuildCommit())
}
