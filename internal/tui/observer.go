package tui

import (
	"sync"

	"github.com/mmcdole/reverig/internal/domain"
)

// ChannelObserver adapts domain.WorkflowObserver to a channel for Bubble Tea.
//
// Sends never block the controller. When the channel is full a progress event
// is dropped, while a terminal event evicts the oldest queued event so the
// model always learns how an operation ended.
type ChannelObserver struct {
	mu sync.Mutex
	ch chan domain.WorkflowEvent
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan domain.WorkflowEvent) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnEvent queues the event for the model
func (o *ChannelObserver) OnEvent(event domain.WorkflowEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	select {
	case o.ch <- event:
		return
	default:
	}
	if !event.Terminal() {
		return
	}

	select {
	case <-o.ch:
	default:
	}
	select {
	case o.ch <- event:
	default:
	}
}
