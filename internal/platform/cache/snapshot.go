package cache

import (
	"sync/atomic"
	"time"
)

// Entry is an immutable published value and the moment it was produced.
type Entry[T any] struct {
	Value     T
	UpdatedAt time.Time
}

// Age is the time elapsed since the entry was produced.
func (e Entry[T]) Age(now time.Time) time.Duration {
	return now.Sub(e.UpdatedAt)
}

// Snapshot holds a single value that readers load without locking and a
// refresh flag that admits at most one refresher at a time. Readers always
// observe either the previous or the next complete entry.
type Snapshot[T any] struct {
	current    atomic.Pointer[Entry[T]]
	refreshing atomic.Bool
	ttl        time.Duration
	now        func() time.Time
}

type SnapshotOption func(*snapshotOptions)

type snapshotOptions struct {
	now func() time.Time
}

// WithClock overrides the time source used for ages and expiry.
func WithClock(now func() time.Time) SnapshotOption {
	return func(o *snapshotOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func NewSnapshot[T any](ttl time.Duration, opts ...SnapshotOption) *Snapshot[T] {
	o := snapshotOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Snapshot[T]{ttl: ttl, now: o.now}
}

// Load returns the current entry. ok is false until the first Store.
func (s *Snapshot[T]) Load() (Entry[T], bool) {
	e := s.current.Load()
	if e == nil {
		return Entry[T]{}, false
	}
	return *e, true
}

// Store publishes value with the current time and returns the new entry.
func (s *Snapshot[T]) Store(value T) Entry[T] {
	e := &Entry[T]{Value: value, UpdatedAt: s.now()}
	s.current.Store(e)
	return *e
}

// Expired reports whether no entry exists or the entry is older than ttl.
func (s *Snapshot[T]) Expired() bool {
	e := s.current.Load()
	if e == nil {
		return true
	}
	return s.ttl > 0 && e.Age(s.now()) >= s.ttl
}

// BeginRefresh claims the refresh flag. It returns false when a refresh is
// already running.
func (s *Snapshot[T]) BeginRefresh() bool {
	return s.refreshing.CompareAndSwap(false, true)
}

// BeginRefreshIfStale claims the refresh flag only when the entry is expired.
func (s *Snapshot[T]) BeginRefreshIfStale() bool {
	if !s.Expired() {
		return false
	}
	return s.BeginRefresh()
}

func (s *Snapshot[T]) EndRefresh() {
	s.refreshing.Store(false)
}

func (s *Snapshot[T]) Refreshing() bool {
	return s.refreshing.Load()
}

func (s *Snapshot[T]) Now() time.Time {
	return s.now()
}
