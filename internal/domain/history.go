package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Outcome is the final result of a recorded operation
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// OutcomeOf classifies a terminal workflow event
func OutcomeOf(e WorkflowEvent) Outcome {
	switch {
	case e.Phase == PhaseFailed:
		return OutcomeFailed
	case errors.Is(e.Err, context.Canceled):
		return OutcomeCancelled
	case e.Err != nil:
		return OutcomeFailed
	default:
		return OutcomeSucceeded
	}
}

// HistoryEntry records one finished operation
type HistoryEntry struct {
	ID         string    `json:"id"`
	AppID      AppID     `json:"appid"`
	Title      string    `json:"title,omitempty"` // page title when known
	Operation  Operation `json:"operation"`
	Outcome    Outcome   `json:"outcome"`
	LastAPI    string    `json:"lastApi,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Duration returns how long the operation ran
func (e HistoryEntry) Duration() time.Duration {
	if e.FinishedAt.IsZero() || e.StartedAt.IsZero() {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

// DisplayTitle returns the title or a fallback built from the identifier
func (e HistoryEntry) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return fmt.Sprintf("App %d", e.AppID)
}

// HistoryStore persists finished operations.
// It never holds presence state: presence is fetched once per page session.
type HistoryStore interface {
	Append(entry HistoryEntry) error
	List() ([]HistoryEntry, error)
	ForApp(id AppID) ([]HistoryEntry, error)
	Get(entryID string) (HistoryEntry, error)
	Clear() error
	Close() error
}
