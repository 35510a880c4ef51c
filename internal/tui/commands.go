package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/service"
	"github.com/mmcdole/reverig/internal/workflow"
)

// Timeout for a single user action; the controller's own per-call
// timeout is usually shorter.
const actionTimeout = 30 * time.Second

// SetupCmd runs the idempotent page setup for id
func SetupCmd(setup *workflow.Setup, surface workflow.Surface, id domain.AppID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		return SetupDoneMsg{Err: setup.Run(ctx, surface, id)}
	}
}

// ClickCmd presses the tool button for id
func ClickCmd(ctrl *workflow.Controller, id domain.AppID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		return ClickDoneMsg{Err: ctrl.Click(ctx, id)}
	}
}

// RestartCmd requests a host restart. The confirmation modal has
// already been answered when this runs.
func RestartCmd(ctrl *workflow.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		return RestartDoneMsg{Err: ctrl.Restart(ctx, nil)}
	}
}

// LoadHistoryCmd loads recorded operations, newest first
func LoadHistoryCmd(history *service.HistoryService) tea.Cmd {
	return func() tea.Msg {
		if history == nil {
			return HistoryLoadedMsg{}
		}
		entries, err := history.List()
		if err != nil {
			return ErrMsg{Err: err, Context: "loading history"}
		}
		return HistoryLoadedMsg{Entries: entries}
	}
}

// WaitForEventCmd reads the next workflow event from ch
func WaitForEventCmd(ch <-chan domain.WorkflowEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return EventsClosedMsg{}
		}
		return WorkflowEventMsg{Event: event}
	}
}

// TickCmd returns a command that ticks after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
