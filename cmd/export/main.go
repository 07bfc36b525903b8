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
		Fields: []any{"service", cfg.ServiceName, "env", cfg.AppEnv, "mode", "export"},
	})
	logging.SetDefault(logger)

	stopTelemetry, err := app.StartTelemetry(cfg, logger)
	if err != nil {
		logger.Error("start telemetry", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	_, exportErr := app.RunExport(ctx, cfg, logger)
	stop()

	telemetryCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := stopTelemetry(telemetryCtx); err != nil {
		logger.Error("stop telemetry", "error", err)
	}
	cancel()
	_ = logger.Sync()

	if exportErr != nil {
		logger.Error("export failed", "error", exportErr)
		os.Exit(1)
	}
}
