package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fpl-xvalue/internal/platform/logging"
	"github.com/robfig/cron/v3"
)

// cronLogger adapts the service logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron "+msg, append(keysAndValues, "error", err)...)
}

// newRefreshScheduler returns nil when spec is empty. The job only submits a
// refresh, so overlapping ticks are harmless.
func newRefreshScheduler(spec string, trigger func(ctx context.Context) bool, logger *logging.Logger) (*cron.Cron, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	scheduler := cron.New(
		cron.WithLogger(cronLogger{logger: logger}),
		cron.WithChain(cron.Recover(cronLogger{logger: logger})),
	)
	_, err := scheduler.AddFunc(spec, func() {
		ctx := context.Background()
		if trigger(ctx) {
			logger.InfoContext(ctx, "scheduled ranking refresh submitted", "schedule", spec)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule ranking refresh %q: %w", spec, err)
	}
	return scheduler, nil
}
