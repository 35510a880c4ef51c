package workflow

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerStopsWhenTickReturnsFalse(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int32
	p := StartPoller(context.Background(), time.Millisecond, func(context.Context) bool {
		return ticks.Add(1) < 3
	})

	select {
	case <-p.Done():
	case <-time.After(waitFor):
		t.Fatal("poller did not stop")
	}
	assert.Equal(t, int32(3), ticks.Load())
}

func TestPollerStop(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int32
	p := StartPoller(context.Background(), time.Millisecond, func(context.Context) bool {
		ticks.Add(1)
		return true
	})
	require.Eventually(t, func() bool { return ticks.Load() > 0 }, waitFor, pollEvery)

	p.Stop()
	<-p.Done()
	n := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, ticks.Load())
}

func TestPollerTicksDoNotOverlap(t *testing.T) {
	t.Parallel()

	var running, maxRunning, ticks atomic.Int32
	p := StartPoller(context.Background(), time.Millisecond, func(context.Context) bool {
		n := running.Add(1)
		if n > maxRunning.Load() {
			maxRunning.Store(n)
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return ticks.Add(1) < 5
	})
	<-p.Done()

	assert.Equal(t, int32(1), maxRunning.Load())
}

func TestPollerParentCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	p := StartPoller(ctx, time.Hour, func(context.Context) bool { return true })
	cancel()

	select {
	case <-p.Done():
	case <-time.After(waitFor):
		t.Fatal("poller ignored parent cancellation")
	}
}
