// Package workflowtest provides a scripted in-process backend for tests.
package workflowtest

import (
	"context"
	"sync"
	"time"

	"github.com/mmcdole/reverig/internal/domain"
)

// Backend is a scripted domain.ToolRepository.
// AddStatus answers from Statuses in order and repeats the last entry.
type Backend struct {
	mu sync.Mutex

	Presence    domain.PresenceResult
	PresenceErr error
	// PresenceGate, when set, blocks HasTool until it is closed
	PresenceGate chan struct{}

	StartErr  error
	Statuses  []domain.StatusResult
	StatusErr error

	RemoveResult domain.RemoveResult
	RemoveErr    error

	DLCResult domain.DLCResult
	DLCErr    error
	// DLCDelay is the round trip of AddDLCs; a cancelled context cuts it short
	DLCDelay time.Duration

	RestartErr error

	calls        map[string]int
	polled       int
	dlcFinished  int
	dlcCancelled int
}

// NewBackend returns a backend reporting the item as absent
func NewBackend() *Backend {
	return &Backend{
		Presence:     domain.PresenceResult{Success: true},
		RemoveResult: domain.RemoveResult{Success: true, Removed: true},
		DLCResult:    domain.DLCResult{Success: true},
		calls:        make(map[string]int),
	}
}

// Script builds status results from bare states
func Script(states ...domain.StatusState) []domain.StatusResult {
	out := make([]domain.StatusResult, len(states))
	for i, s := range states {
		out[i] = domain.StatusResult{Success: true, State: s}
	}
	return out
}

// SetStatuses replaces the status script
func (b *Backend) SetStatuses(results []domain.StatusResult) {
	b.mu.Lock()
	b.Statuses = results
	b.polled = 0
	b.mu.Unlock()
}

// Calls returns how often method was called
func (b *Backend) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

func (b *Backend) count(method string) {
	b.mu.Lock()
	b.calls[method]++
	b.mu.Unlock()
}

func (b *Backend) HasTool(ctx context.Context, id domain.AppID) (domain.PresenceResult, error) {
	b.count("HasTool")
	b.mu.Lock()
	gate := b.PresenceGate
	b.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.PresenceResult{}, ctx.Err()
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Presence, b.PresenceErr
}

func (b *Backend) StartAdd(ctx context.Context, id domain.AppID) error {
	b.count("StartAdd")
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.StartErr
}

func (b *Backend) AddStatus(ctx context.Context, id domain.AppID) (domain.StatusResult, error) {
	b.count("AddStatus")
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.StatusErr != nil {
		return domain.StatusResult{}, b.StatusErr
	}
	if len(b.Statuses) == 0 {
		return domain.StatusResult{}, nil
	}
	i := b.polled
	if i >= len(b.Statuses) {
		i = len(b.Statuses) - 1
	}
	b.polled++
	return b.Statuses[i], nil
}

func (b *Backend) RemoveTool(ctx context.Context, id domain.AppID) (domain.RemoveResult, error) {
	b.count("RemoveTool")
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.RemoveResult, b.RemoveErr
}

func (b *Backend) AddDLCs(ctx context.Context, id domain.AppID) (domain.DLCResult, error) {
	b.count("AddDLCs")
	b.mu.Lock()
	delay := b.DLCDelay
	b.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			b.mu.Lock()
			b.dlcCancelled++
			b.mu.Unlock()
			return domain.DLCResult{}, ctx.Err()
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dlcFinished++
	return b.DLCResult, b.DLCErr
}

// DLCOutcomes returns how many AddDLCs calls ran to completion and how many
// were cut short by their context
func (b *Backend) DLCOutcomes() (finished, cancelled int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dlcFinished, b.dlcCancelled
}

func (b *Backend) RestartHost(ctx context.Context) error {
	b.count("RestartHost")
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.RestartErr
}

// Recorder collects workflow events
type Recorder struct {
	mu     sync.Mutex
	events []domain.WorkflowEvent
}

func (r *Recorder) OnEvent(e domain.WorkflowEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns the events seen so far
func (r *Recorder) Events() []domain.WorkflowEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.WorkflowEvent(nil), r.events...)
}

// Phases returns the phase of every event seen so far
func (r *Recorder) Phases() []domain.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Phase, len(r.events))
	for i, e := range r.events {
		out[i] = e.Phase
	}
	return out
}
