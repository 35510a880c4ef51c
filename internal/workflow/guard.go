package workflow

import (
	"sync"

	"github.com/mmcdole/reverig/internal/domain"
)

// Guard is the run guard: at most one add or remove runs per identifier
type Guard struct {
	mu         sync.Mutex
	inProgress bool
	appID      domain.AppID
}

// TryAcquire marks a run for id as in progress.
// Returns false if a run for the same id already holds the guard.
func (g *Guard) TryAcquire(id domain.AppID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inProgress && g.appID == id {
		return false
	}
	g.inProgress = true
	g.appID = id
	return true
}

// Release clears the guard
func (g *Guard) Release() {
	g.mu.Lock()
	g.inProgress = false
	g.appID = 0
	g.mu.Unlock()
}

// Holds reports whether a run for id is in progress
func (g *Guard) Holds(id domain.AppID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inProgress && g.appID == id
}

// Current returns the identifier holding the guard, if any
func (g *Guard) Current() (domain.AppID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.appID, g.inProgress
}
