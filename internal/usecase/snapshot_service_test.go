package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-xvalue/internal/domain/player"
	"github.com/riskibarqy/fpl-xvalue/internal/domain/ranking"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/id"
	usecasemock "github.com/riskibarqy/fpl-xvalue/internal/mocks/usecase"
	"github.com/stretchr/testify/mock"
)

func sampleTable(xValue float64) ranking.Table {
	table := ranking.NewTable()
	table.Add(ranking.PlayerScore{PlayerID: 1, Name: "Sample Player", Position: player.PositionForward, XValue: xValue})
	return table
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newSnapshotService(t *testing.T, ranker Ranker, ttl time.Duration, clock *fakeClock) *SnapshotService {
	t.Helper()
	cfg := SnapshotConfig{TTL: ttl}
	if clock != nil {
		cfg.Now = clock.Now
	}
	svc, err := NewSnapshotService(ranker, cfg, id.Static("run-1"), nil)
	if err != nil {
		t.Fatalf("new snapshot service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close(time.Second) })
	return svc
}

func TestSnapshotService_LoadingThenReady(t *testing.T) {
	t.Parallel()

	ranker := usecasemock.NewRanker(t)
	release := make(chan struct{})
	ranker.On("Rank", mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(sampleTable(0.5), nil).
		Once()

	svc := newSnapshotService(t, ranker, 30*time.Minute, nil)
	ctx := context.Background()

	first := svc.Current(ctx)
	if first.Ready || !first.Refreshing {
		t.Fatalf("expected loading snapshot, got %+v", first)
	}

	// Concurrent readers during the refresh must not start another one.
	for i := 0; i < 10; i++ {
		if snap := svc.Current(ctx); snap.Ready || !snap.Refreshing {
			t.Fatalf("expected loading snapshot while refreshing, got %+v", snap)
		}
	}

	close(release)
	waitFor(t, func() bool {
		snap := svc.Current(ctx)
		return snap.Ready && !snap.Refreshing
	})

	snap := svc.Current(ctx)
	if snap.Refreshing {
		t.Fatalf("fresh snapshot must not trigger a refresh")
	}
	if snap.Table.Len() != 1 || snap.UpdatedAt.IsZero() {
		t.Fatalf("unexpected published snapshot: %+v", snap)
	}
}

func TestSnapshotService_FailedRefreshKeepsPreviousTable(t *testing.T) {
	t.Parallel()

	ranker := usecasemock.NewRanker(t)
	ranker.On("Rank", mock.Anything).Return(sampleTable(0.7), nil).Once()
	ranker.On("Rank", mock.Anything).Return(nil, errors.New("bootstrap unavailable")).Once()

	svc := newSnapshotService(t, ranker, 30*time.Minute, nil)
	ctx := context.Background()

	svc.Start(ctx)
	waitFor(t, func() bool {
		snap := svc.Current(ctx)
		return snap.Ready && !snap.Refreshing
	})
	before := svc.Current(ctx)

	if !svc.TriggerRefresh(ctx) {
		t.Fatalf("expected refresh to be accepted")
	}
	waitFor(t, func() bool { return !svc.Current(ctx).Refreshing })

	after := svc.Current(ctx)
	if !after.Ready || !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("expected previous table to survive failed refresh: before=%+v after=%+v", before, after)
	}
	if got := after.Table[ranking.CategoryAttackers][0].XValue; got != 0.7 {
		t.Fatalf("unexpected table after failed refresh: xValue=%v", got)
	}
}

func TestSnapshotService_FailedInitialRefreshAllowsRetry(t *testing.T) {
	t.Parallel()

	ranker := usecasemock.NewRanker(t)
	ranker.On("Rank", mock.Anything).Return(nil, errors.New("timeout")).Once()
	ranker.On("Rank", mock.Anything).Return(sampleTable(0.3), nil).Once()

	svc := newSnapshotService(t, ranker, 30*time.Minute, nil)
	ctx := context.Background()

	if snap := svc.Current(ctx); snap.Ready {
		t.Fatalf("expected loading snapshot, got %+v", snap)
	}
	// Polling keeps calling Current, which resubmits once the failed run clears the flag.
	waitFor(t, func() bool { return svc.Current(ctx).Ready })
}

func TestSnapshotService_StaleSnapshotServedWhileRefreshing(t *testing.T) {
	t.Parallel()

	ranker := usecasemock.NewRanker(t)
	release := make(chan struct{})
	ranker.On("Rank", mock.Anything).Return(sampleTable(0.1), nil).Once()
	ranker.On("Rank", mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(sampleTable(0.9), nil).
		Once()

	clock := &fakeClock{now: time.Date(2026, 9, 20, 12, 0, 0, 0, time.UTC)}
	svc := newSnapshotService(t, ranker, 30*time.Minute, clock)
	ctx := context.Background()

	svc.Start(ctx)
	waitFor(t, func() bool {
		snap := svc.Current(ctx)
		return snap.Ready && !snap.Refreshing
	})
	clock.Advance(31 * time.Minute)

	stale := svc.Current(ctx)
	if !stale.Ready || !stale.Refreshing {
		t.Fatalf("expected stale data with refresh in flight, got %+v", stale)
	}
	if got := stale.Table[ranking.CategoryAttackers][0].XValue; got != 0.1 {
		t.Fatalf("expected old table while refreshing, got xValue=%v", got)
	}

	close(release)
	waitFor(t, func() bool {
		rows := svc.Current(ctx).Table[ranking.CategoryAttackers]
		return len(rows) == 1 && rows[0].XValue == 0.9
	})
}

func TestSnapshotService_TriggerIsNoopWhileRunning(t *testing.T) {
	t.Parallel()

	ranker := usecasemock.NewRanker(t)
	release := make(chan struct{})
	ranker.On("Rank", mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(sampleTable(0.2), nil).
		Once()

	svc := newSnapshotService(t, ranker, time.Hour, nil)
	ctx := context.Background()

	if !svc.TriggerRefresh(ctx) {
		t.Fatalf("expected first trigger to be accepted")
	}
	if svc.TriggerRefresh(ctx) {
		t.Fatalf("expected second trigger to be ignored while running")
	}
	close(release)
	waitFor(t, func() bool { return svc.Current(ctx).Ready })
}
