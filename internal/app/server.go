package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/riskibarqy/fpl-xvalue/internal/config"
	"github.com/riskibarqy/fpl-xvalue/internal/interfaces/httpapi"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/id"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/logging"
	"github.com/riskibarqy/fpl-xvalue/internal/usecase"
	"github.com/robfig/cron/v3"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP listener, the ranking snapshot and its optional
// refresh schedule.
type Server struct {
	http      *http.Server
	snapshots *usecase.SnapshotService
	scheduler *cron.Cron
	logger    *logging.Logger
}

func NewServer(cfg config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	client := newFPLClient(cfg, logger)
	ranker := newRankingService(cfg, client, logger)

	snapshots, err := usecase.NewSnapshotService(ranker, usecase.SnapshotConfig{
		TTL:            cfg.CacheTTL,
		RefreshTimeout: cfg.RefreshTimeout,
	}, id.NewUUIDGenerator(), logger.Named("snapshot"))
	if err != nil {
		return nil, fmt.Errorf("build snapshot service: %w", err)
	}

	scheduler, err := newRefreshScheduler(cfg.RefreshCron, snapshots.TriggerRefresh, logger.Named("scheduler"))
	if err != nil {
		_ = snapshots.Close(time.Second)
		return nil, err
	}

	handler := httpapi.NewHandler(snapshots, cfg.StaticDir, logger)
	router := httpapi.NewRouter(handler, logger.Named("http"), cfg.CORSAllowedOrigins)

	return &Server{
		http: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		snapshots: snapshots,
		scheduler: scheduler,
		logger:    logger,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run starts the eager refresh, the schedule and the listener, then blocks
// until ctx is cancelled or the listener fails, and shuts everything down.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		_ = s.snapshots.Close(time.Second)
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.snapshots.Start(ctx)
	if s.scheduler != nil {
		s.scheduler.Start()
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", "addr", listener.Addr().String())
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("http server failed: %w", err)
		}
	}

	return errors.Join(runErr, s.shutdown())
}

func (s *Server) shutdown() error {
	if s.scheduler != nil {
		<-s.scheduler.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("graceful shutdown: %w", err))
	}
	if err := s.snapshots.Close(shutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("stop refresh worker: %w", err))
	}

	s.logger.Info("http server stopped")
	return errors.Join(errs...)
}
