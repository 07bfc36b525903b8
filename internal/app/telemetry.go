package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/fpl-xvalue/internal/config"
	"github.com/riskibarqy/fpl-xvalue/internal/observability"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/logging"
)

// StartTelemetry brings up tracing, profiling and the pprof listener. The
// returned func stops them in reverse order.
func StartTelemetry(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}

	pprofServer := observability.StartPprofServer(cfg, logger)

	return func(ctx context.Context) error {
		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		return errors.Join(
			observability.StopPprofServer(pprofServer, logger, timeout),
			stopProfiler(),
			shutdownTracing(ctx),
		)
	}, nil
}
