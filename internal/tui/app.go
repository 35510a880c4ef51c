package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/service"
	"github.com/mmcdole/reverig/internal/tui/components"
	"github.com/mmcdole/reverig/internal/tui/styles"
	"github.com/mmcdole/reverig/internal/workflow"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateConfirmRestart
)

// Layout constants
const (
	ChromeHeight  = 6 // header + button row + footer
	modalWidth    = 48
	refreshEvery  = 100 * time.Millisecond
	statusTimeout = 3 * time.Second
)

// Options wires the model to the workflow and its collaborators
type Options struct {
	Controller *workflow.Controller
	Setup      *workflow.Setup
	Surface    *workflow.MemorySurface
	History    *service.HistoryService // optional; nil leaves the pane empty
	Events     <-chan domain.WorkflowEvent
	AppID      domain.AppID
	Title      string
	Logger     *slog.Logger
}

// Model is the main Bubble Tea model
type Model struct {
	controller *workflow.Controller
	setup      *workflow.Setup
	surface    *workflow.MemorySurface
	history    *service.HistoryService
	events     <-chan domain.WorkflowEvent
	logger     *slog.Logger

	AppID domain.AppID
	Title string

	State  ApplicationState
	Width  int
	Height int
	Ready  bool

	// Snapshot of the surface, refreshed on every tick and event
	Page      workflow.SurfaceState
	Phase     domain.Phase
	SetupDone bool

	StatusMsg   string
	StatusIsErr bool

	History  *components.HistoryList
	progress progress.Model
	spinner  spinner.Model
}

// NewModel creates a model for one page identifier
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	bar := progress.New(
		progress.WithSolidFill(string(styles.SteamBlue)),
		progress.WithoutPercentage(),
		progress.WithWidth(modalWidth-10),
	)

	m := Model{
		controller: opts.Controller,
		setup:      opts.Setup,
		surface:    opts.Surface,
		history:    opts.History,
		events:     opts.Events,
		logger:     logger.With("component", "tui"),
		AppID:      opts.AppID,
		Title:      opts.Title,
		State:      StateBrowsing,
		Phase:      domain.PhaseIdle,
		History:    components.NewHistoryList(),
		progress:   bar,
		spinner:    sp,
	}
	m.refresh()
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		SetupCmd(m.setup, m.surface, m.AppID),
		LoadHistoryCmd(m.history),
		WaitForEventCmd(m.events),
		TickCmd(refreshEvery),
		m.spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.History.SetSize(m.Width, max(m.Height-ChromeHeight, 3))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.refresh()
		return m, TickCmd(refreshEvery)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case WorkflowEventMsg:
		m.refresh()
		cmds := []tea.Cmd{WaitForEventCmd(m.events)}
		if cmd := m.handleEvent(msg.Event); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case EventsClosedMsg:
		m.events = nil
		return m, nil

	case SetupDoneMsg:
		m.refresh()
		if msg.Err != nil {
			m.logger.Warn("setup failed", "appid", m.AppID, "error", msg.Err)
			return m, m.setStatus(setupErrorText(msg.Err), true)
		}
		m.SetupDone = true
		return m, nil

	case ClickDoneMsg:
		m.refresh()
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrInProgress) {
			return m, m.setStatus("Error: "+msg.Err.Error(), true)
		}
		return m, nil

	case RestartDoneMsg:
		if msg.Err != nil {
			return m, m.setStatus("Restart failed: "+msg.Err.Error(), true)
		}
		return m, m.setStatus("Restart requested", false)

	case HistoryLoadedMsg:
		m.History.SetEntries(msg.Entries)
		return m, nil

	case ErrMsg:
		m.logger.Error("tui error", "error", msg.Err, "context", msg.Context)
		return m, m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StateConfirmRestart:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, RestartCmd(m.controller)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Filter typing owns every key until it is accepted or cleared
	if m.History.IsFilterTyping() {
		return m, m.History.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.CloseOverlay):
		if m.Page.OverlayOpen {
			m.controller.CloseOverlay()
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, Keys.Escape) && m.Page.OverlayOpen && !m.History.IsFiltering():
		m.controller.CloseOverlay()
		m.refresh()
		return m, nil

	case key.Matches(msg, Keys.Click):
		if !m.Page.ToolButton {
			return m, m.setStatus("Button not ready yet", true)
		}
		if m.controller.InProgress(m.AppID) {
			return m, m.setStatus("Operation already in progress", false)
		}
		return m, ClickCmd(m.controller, m.AppID)

	case key.Matches(msg, Keys.Restart):
		if !m.Page.RestartButton {
			return m, nil
		}
		m.State = StateConfirmRestart
		return m, nil

	case key.Matches(msg, Keys.Setup):
		return m, SetupCmd(m.setup, m.surface, m.AppID)

	case key.Matches(msg, Keys.Filter):
		return m, m.History.ToggleFilter()
	}

	return m, m.History.Update(msg)
}

// handleEvent reacts to a workflow transition
func (m *Model) handleEvent(e domain.WorkflowEvent) tea.Cmd {
	if e.Operation != domain.OperationRestart && e.AppID == m.AppID {
		m.Phase = e.Phase
	}
	if !e.Terminal() {
		return nil
	}

	var status tea.Cmd
	switch {
	case e.Operation == domain.OperationRestart:
		// RestartDoneMsg reports the outcome
	case e.Phase == domain.PhaseDone:
		status = m.setStatus(domain.LabelAdded, false)
	case e.Phase == domain.PhaseFailed:
		status = m.setStatus(domain.LabelFailed, true)
	case e.Operation == domain.OperationRemove && e.Err == nil:
		status = m.setStatus("Removed", false)
	case e.Err != nil && !errors.Is(e.Err, context.Canceled):
		status = m.setStatus("Error: "+e.Err.Error(), true)
	}
	return tea.Batch(status, LoadHistoryCmd(m.history))
}

// refresh copies the surface and controller state into the model
func (m *Model) refresh() {
	if m.surface != nil {
		m.Page = m.surface.Snapshot()
	}
	if m.controller != nil {
		m.Phase = m.controller.Phase(m.AppID)
	}
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}

func setupErrorText(err error) string {
	switch {
	case errors.Is(err, workflow.ErrNoButtonRow):
		return "No button row on this page"
	case errors.Is(err, domain.ErrInvalidAppID):
		return "Not a store page"
	default:
		return "Setup failed: " + err.Error()
	}
}
