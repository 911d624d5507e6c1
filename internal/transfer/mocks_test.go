package transfer

import (
	"context"
	"sync"
	"time"
)

// fakeClock provides deterministic time for testing. Sleep advances it.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.advance(d)
	return nil
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type rendered struct {
	view     View
	progress Progress
}

// recordingSink keeps every view it receives, along with the tracker's
// counters at that moment when a tracker is attached.
type recordingSink struct {
	mu      sync.Mutex
	tracker *Tracker
	renders []rendered
	err     error
}

func (s *recordingSink) Edit(_ context.Context, v View) error {
	var p Progress
	if s.tracker != nil {
		p = s.tracker.Snapshot()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders = append(s.renders, rendered{view: v, progress: p})
	return s.err
}

func (s *recordingSink) all() []rendered {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]rendered(nil), s.renders...)
}

func (s *recordingSink) last() rendered {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.renders) == 0 {
		return rendered{}
	}
	return s.renders[len(s.renders)-1]
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.renders)
}
