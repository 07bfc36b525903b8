package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/fpl-xvalue/internal/domain/ranking"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/cache"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/id"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/logging"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/worker"
)

// Ranker produces a complete ranking table.
type Ranker interface {
	Rank(ctx context.Context) (ranking.Table, error)
}

// Snapshot is what a reader observes at one instant.
type Snapshot struct {
	Table      ranking.Table
	UpdatedAt  time.Time
	Age        time.Duration
	Ready      bool
	Refreshing bool
}

type SnapshotConfig struct {
	TTL time.Duration
	// RefreshTimeout bounds one refresh run. Zero leaves the run bounded only
	// by upstream HTTP timeouts.
	RefreshTimeout time.Duration
	Now            func() time.Time
}

// SnapshotService serves the last published ranking and refreshes it in the
// background when it is missing or older than the TTL. Readers never wait
// for a refresh.
type SnapshotService struct {
	ranker         Ranker
	snapshot       *cache.Snapshot[ranking.Table]
	slot           *worker.SingleSlot
	ids            id.Generator
	refreshTimeout time.Duration
	logger         *logging.Logger
}

func NewSnapshotService(ranker Ranker, cfg SnapshotConfig, ids id.Generator, logger *logging.Logger) (*SnapshotService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}

	svc := &SnapshotService{
		ranker:         ranker,
		snapshot:       cache.NewSnapshot[ranking.Table](cfg.TTL, cache.WithClock(cfg.Now)),
		ids:            ids,
		refreshTimeout: cfg.RefreshTimeout,
		logger:         logger,
	}

	slot, err := worker.NewSingleSlot(func(v any) {
		logger.Error("ranking refresh panicked", "panic", v)
	})
	if err != nil {
		return nil, err
	}
	svc.slot = slot
	return svc, nil
}

// Start submits the initial refresh.
func (s *SnapshotService) Start(ctx context.Context) {
	s.TriggerRefresh(ctx)
}

// Current returns the published snapshot and, when it is missing or stale and
// no refresh is running, submits exactly one background refresh.
func (s *SnapshotService) Current(ctx context.Context) Snapshot {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.Current")
	defer span.End()

	if s.snapshot.BeginRefreshIfStale() {
		s.submit(ctx)
	}
	return s.view()
}

// TriggerRefresh submits a refresh regardless of age. It is a no-op while a
// refresh is already running.
func (s *SnapshotService) TriggerRefresh(ctx context.Context) bool {
	if !s.snapshot.BeginRefresh() {
		s.logger.DebugContext(ctx, "ranking refresh already running")
		return false
	}
	return s.submit(ctx)
}

func (s *SnapshotService) Close(timeout time.Duration) error {
	return s.slot.Close(timeout)
}

func (s *SnapshotService) submit(ctx context.Context) bool {
	detached := context.WithoutCancel(ctx)
	ok := s.slot.Submit(func() {
		defer s.snapshot.EndRefresh()
		_ = s.refresh(detached)
	})
	if !ok {
		s.snapshot.EndRefresh()
		s.logger.WarnContext(ctx, "ranking refresh rejected by worker")
	}
	return ok
}

func (s *SnapshotService) refresh(ctx context.Context) error {
	runID, err := s.ids.NewID()
	if err != nil {
		runID = "unknown"
	}
	logger := s.logger.With("run_id", runID)

	if s.refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.refreshTimeout)
		defer cancel()
	}

	started := time.Now()
	logger.InfoContext(ctx, "ranking refresh started")

	table, err := s.ranker.Rank(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "ranking refresh failed", "error", err, "duration_ms", time.Since(started).Milliseconds())
		return err
	}

	entry := s.snapshot.Store(table)
	logger.InfoContext(ctx, "ranking refresh published",
		"players", table.Len(),
		"updated_at", entry.UpdatedAt,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return nil
}

func (s *SnapshotService) view() Snapshot {
	out := Snapshot{Refreshing: s.snapshot.Refreshing()}
	entry, ok := s.snapshot.Load()
	if !ok {
		return out
	}
	out.Ready = true
	out.Table = entry.Value
	out.UpdatedAt = entry.UpdatedAt
	out.Age = entry.Age(s.snapshot.Now())
	return out
}
