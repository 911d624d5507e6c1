package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterBoundsActive(t *testing.T) {
	l := NewLimiter(2)
	assert.Equal(t, 2, l.Limit())

	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))
	assert.Equal(t, 2, l.Active())

	l.Release()
	assert.Equal(t, 1, l.Active())
	require.NoError(t, l.Acquire(context.Background()))
	assert.Equal(t, 2, l.Active())
}

func TestLimiterAcquireHonoursContext(t *testing.T) {
	l := NewLimiter(1)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Acquire(ctx), context.DeadlineExceeded)
	assert.Equal(t, 1, l.Active())
}

func TestLimiterReleaseWithoutAcquire(t *testing.T) {
	l := NewLimiter(0)
	assert.Equal(t, 1, l.Limit())
	l.Release()
	assert.Equal(t, 0, l.Active())
}
