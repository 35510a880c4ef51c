package workflow

import (
	"context"
	"time"
)

// TickFunc runs one poll. Returning false stops the poller.
type TickFunc func(ctx context.Context) bool

// Poller runs a TickFunc on a fixed interval until stopped.
// Ticks never overlap: the tick runs on the poller goroutine and the
// ticker drops ticks while one is in flight.
type Poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartPoller starts polling. The first tick fires after one interval.
func StartPoller(ctx context.Context, interval time.Duration, tick TickFunc) *Poller {
	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		defer cancel()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !tick(ctx) {
					return
				}
			}
		}
	}()

	return p
}

// Stop cancels the poller. It does not wait for an in-flight tick.
func (p *Poller) Stop() {
	p.cancel()
}

// Done is closed once the poller goroutine has exited
func (p *Poller) Done() <-chan struct{} {
	return p.done
}
