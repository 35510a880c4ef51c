package tui

import (
	"fmt"

	"github.com/mmcdole/reverig/internal/domain"
)

// WorkflowEventMsg carries a controller transition into the program
type WorkflowEventMsg struct {
	Event domain.WorkflowEvent
}

// EventsClosedMsg signals the event channel was closed
type EventsClosedMsg struct{}

// SetupDoneMsg reports the end of a setup run
type SetupDoneMsg struct {
	Err error
}

// ClickDoneMsg reports the return of a button click
type ClickDoneMsg struct {
	Err error
}

// RestartDoneMsg reports the end of a restart request
type RestartDoneMsg struct {
	Err error
}

// HistoryLoadedMsg is sent when history entries are loaded
type HistoryLoadedMsg struct {
	Entries []domain.HistoryEntry
}

// ErrMsg is sent when an error occurs
type ErrMsg struct {
	Err     error
	Context string
}

func (e ErrMsg) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %v", e.Context, e.Err)
	}
	return e.Err.Error()
}

// TickMsg refreshes the surface snapshot
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
