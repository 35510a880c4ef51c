package handlers

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/tui"
	"github.com/mmcdole/reverig/internal/workflow"
)

// TUI handles the tui command.
func TUI(ctx context.Context, configPath, app, title string) error {
	id, err := domain.ParseAppID(app)
	if err != nil {
		return err
	}

	e, err := openEnv(ctx, configPath, true)
	if err != nil {
		return err
	}
	defer e.Close()

	e.logger.Info("starting reverig", "appid", id)
	if title != "" {
		e.history.SetTitle(id, title)
	}

	events := make(chan domain.WorkflowEvent, 64)
	surface := workflow.NewMemorySurface()
	ctrl := e.controller(surface, tui.NewChannelObserver(events))
	defer ctrl.Close()

	model := tui.NewModel(tui.Options{
		Controller: ctrl,
		Setup:      e.setup(),
		Surface:    surface,
		History:    e.history,
		Events:     events,
		AppID:      id,
		Title:      title,
		Logger:     e.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	e.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		e.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	e.logger.Info("shutting down")
	return nil
}
