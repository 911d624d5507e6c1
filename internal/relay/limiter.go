package relay

import (
	"context"
)

// Limiter bounds how many relays run at once.
type Limiter struct {
	sem chan struct{}
}

func NewLimiter(limit int) *Limiter {
	if limit <= 0 {
		limit = 1
	}
	return &Limiter{
		sem: make(chan struct{}, limit),
	}
}

// Acquire blocks until a slot frees up or ctx ends.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Limiter) Release() {
	select {
	case <-l.sem:
	default:
	}
}

func (l *Limiter) Active() int {
	return len(l.sem)
}

func (l *Limiter) Limit() int {
	return cap(l.sem)
}
