package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/fpl-xvalue/internal/app"
	"github.com/riskibarqy/fpl-xvalue/internal/config"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Fields: []any{"service", cfg.ServiceName, "env", cfg.AppEnv},
	})
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	stopTelemetry, err := app.StartTelemetry(cfg, logger)
	if err != nil {
		logger.Error("start telemetry", "error", err)
		os.Exit(1)
	}

	srv, err := app.NewServer(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := srv.Run(ctx)

	telemetryCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stopTelemetry(telemetryCtx); err != nil {
		logger.Error("stop telemetry", "error", err)
	}

	if runErr != nil {
		logger.Error("http server failed", "error", runErr)
		os.Exit(1)
	}
}
