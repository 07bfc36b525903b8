package app

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fpl-xvalue/internal/config"
	"github.com/riskibarqy/fpl-xvalue/internal/infrastructure/report"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/logging"
)

// RunExport ranks every player once and writes the workbook.
func RunExport(ctx context.Context, cfg config.Config, logger *logging.Logger) (report.Summary, error) {
	if logger == nil {
		logger = logging.Default()
	}

	started := time.Now()
	client := newFPLClient(cfg, logger)
	table, err := newRankingService(cfg, client, logger).Rank(ctx)
	if err != nil {
		return report.Summary{}, fmt.Errorf("rank players: %w", err)
	}

	writer := report.NewXLSXWriter(report.Config{
		Path:         cfg.ExportPath,
		PositiveOnly: cfg.ExportPositiveOnly,
	}, logger.Named("report"))
	summary, err := writer.Write(ctx, table)
	if err != nil {
		return report.Summary{}, err
	}

	logger.InfoContext(ctx, "export finished",
		"path", summary.Path,
		"players", table.Len(),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return summary, nil
}
