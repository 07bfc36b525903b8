package app

import (
	"github.com/riskibarqy/fpl-xvalue/external/fpl"
	"github.com/riskibarqy/fpl-xvalue/internal/config"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/logging"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/resilience"
	"github.com/riskibarqy/fpl-xvalue/internal/usecase"
)

func newFPLClient(cfg config.Config, logger *logging.Logger) *fpl.Client {
	return fpl.NewClient(fpl.ClientConfig{
		BaseURL:           cfg.FPLBaseURL,
		UserAgent:         cfg.FPLUserAgent,
		Timeout:           cfg.FPLTimeout,
		MaxRetries:        cfg.FPLMaxRetries,
		RetryDelay:        cfg.FPLRetryDelay,
		RequestsPerSecond: cfg.FPLRequestsPerSecond,
		BootstrapTTL:      cfg.FPLBootstrapTTL,
		Logger:            logger.Named("fpl"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FPLCircuitEnabled,
			FailureThreshold: cfg.FPLCircuitFailureCount,
			OpenTimeout:      cfg.FPLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FPLCircuitHalfOpenMaxReq,
		},
	})
}

func newRankingService(cfg config.Config, client *fpl.Client, logger *logging.Logger) *usecase.RankingService {
	return usecase.NewRankingService(
		client,
		client,
		client,
		client,
		usecase.RankingConfig{HistoryConcurrency: cfg.FPLHistoryConcurrency},
		logger.Named("ranking"),
	)
}
