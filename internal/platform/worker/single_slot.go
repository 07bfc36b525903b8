package worker

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
)

// SingleSlot runs background tasks one at a time. One submission may wait
// for the running task to finish; any further submission is rejected.
type SingleSlot struct {
	pool *ants.Pool
}

func NewSingleSlot(panicHandler func(any)) (*SingleSlot, error) {
	opts := []ants.Option{ants.WithMaxBlockingTasks(1)}
	if panicHandler != nil {
		opts = append(opts, ants.WithPanicHandler(panicHandler))
	}
	pool, err := ants.NewPool(1, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create single slot pool")
	}
	return &SingleSlot{pool: pool}, nil
}

// Submit returns false when the task was rejected.
func (s *SingleSlot) Submit(task func()) bool {
	if s == nil || s.pool == nil {
		return false
	}
	return s.pool.Submit(task) == nil
}

func (s *SingleSlot) Running() int {
	if s == nil || s.pool == nil {
		return 0
	}
	return s.pool.Running()
}

// Close stops accepting tasks and waits up to timeout for the running one.
func (s *SingleSlot) Close(timeout time.Duration) error {
	if s == nil || s.pool == nil {
		return nil
	}
	if err := s.pool.ReleaseTimeout(timeout); err != nil && !errors.Is(err, ants.ErrPoolClosed) {
		return errors.Wrap(err, "release single slot pool")
	}
	return nil
}
