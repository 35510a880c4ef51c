package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reverig/internal/adapter"
	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/workflow"
	"github.com/mmcdole/reverig/internal/workflow/workflowtest"
)

const testApp = domain.AppID(440)

type fixture struct {
	backend *workflowtest.Backend
	surface *workflow.MemorySurface
	ctrl    *workflow.Controller
	events  chan domain.WorkflowEvent
	model   Model
}

func newFixture(t *testing.T, surface *workflow.MemorySurface) *fixture {
	t.Helper()

	backend := workflowtest.NewBackend()
	events := make(chan domain.WorkflowEvent, 64)
	ctrl := workflow.NewController(backend, surface,
		workflow.WithObserver(NewChannelObserver(events)),
		workflow.WithLogger(adapter.NullLogger()),
		workflow.WithPollInterval(5*time.Millisecond),
		workflow.WithHideDelay(time.Millisecond),
	)
	t.Cleanup(ctrl.Close)

	m := NewModel(Options{
		Controller: ctrl,
		Setup:      workflow.NewSetup(backend, adapter.NullLogger()),
		Surface:    surface,
		Events:     events,
		AppID:      testApp,
		Title:      "Team Fortress 2",
		Logger:     adapter.NullLogger(),
	})
	f := &fixture{backend: backend, surface: surface, ctrl: ctrl, events: events, model: m}
	f.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	return f
}

// send feeds msg to the model and returns the resulting command
func (f *fixture) send(msg tea.Msg) tea.Cmd {
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	return cmd
}

// run executes cmd synchronously and feeds its message back
func (f *fixture) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	f.send(cmd())
}

func (f *fixture) setup(t *testing.T) {
	t.Helper()
	f.run(t, SetupCmd(f.model.setup, f.surface, testApp))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_SetupRendersButtons(t *testing.T) {
	f := newFixture(t, workflow.NewMemorySurface())
	f.setup(t)

	assert.True(t, f.model.SetupDone)
	assert.True(t, f.model.Page.ToolButton)
	assert.True(t, f.model.Page.RestartButton)
	assert.Equal(t, domain.ModeAdd, f.model.Page.Mode)

	view := f.model.View()
	assert.Contains(t, view, "Team Fortress 2")
	assert.Contains(t, view, "Add via reverig-tool")
	assert.Contains(t, view, domain.LabelRestart)
}

func TestModel_SetupWithoutButtonRow(t *testing.T) {
	f := newFixture(t, workflow.NewMemorySurfaceWithoutRow())
	f.setup(t)

	assert.False(t, f.model.SetupDone)
	assert.True(t, f.model.StatusIsErr)
	assert.Equal(t, "No button row on this page", f.model.StatusMsg)
}

func TestModel_ClickRunsAddToDone(t *testing.T) {
	f := newFixture(t, workflow.NewMemorySurface())
	f.backend.SetStatuses(workflowtest.Script(
		domain.StatusState{Status: domain.StatusDownloading, BytesRead: 50, TotalBytes: 100},
		domain.StatusState{Status: domain.StatusDone},
	))
	f.setup(t)

	cmd := f.send(tea.KeyMsg{Type: tea.KeyEnter})
	f.run(t, cmd)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.ctrl.Wait(ctx))
	f.send(TickMsg{})

	assert.Equal(t, domain.ModeRemove, f.model.Page.Mode)
	assert.Equal(t, 1, f.backend.Calls("StartAdd"))
	assert.True(t, f.model.Page.OverlayOpen)
	assert.Contains(t, f.model.View(), domain.LabelAdded)

	f.send(runes("c"))
	assert.False(t, f.model.Page.OverlayOpen)
}

func TestModel_WorkflowEventsUpdateStatus(t *testing.T) {
	f := newFixture(t, workflow.NewMemorySurface())

	cmd := f.send(WorkflowEventMsg{Event: domain.WorkflowEvent{
		AppID:     testApp,
		Operation: domain.OperationAdd,
		Phase:     domain.PhaseFailed,
	}})
	assert.NotNil(t, cmd)
	assert.Equal(t, domain.PhaseFailed, f.model.Phase)
	assert.Equal(t, domain.LabelFailed, f.model.StatusMsg)
	assert.True(t, f.model.StatusIsErr)

	f.send(ClearStatusMsg{})
	assert.Empty(t, f.model.StatusMsg)
}

func TestModel_RestartConfirmation(t *testing.T) {
	f := newFixture(t, workflow.NewMemorySurface())
	f.setup(t)

	f.send(runes("R"))
	require.Equal(t, StateConfirmRestart, f.model.State)
	assert.Contains(t, f.model.View(), "Restart Steam?")

	assert.Nil(t, f.send(runes("n")))
	assert.Equal(t, StateBrowsing, f.model.State)
	assert.Zero(t, f.backend.Calls("RestartHost"))

	f.send(runes("R"))
	f.run(t, f.send(runes("y")))
	assert.Equal(t, StateBrowsing, f.model.State)
	assert.Equal(t, 1, f.backend.Calls("RestartHost"))
	assert.Equal(t, "Restart requested", f.model.StatusMsg)
}

func TestModel_RestartNeedsButton(t *testing.T) {
	f := newFixture(t, workflow.NewMemorySurface())

	f.send(runes("R"))
	assert.Equal(t, StateBrowsing, f.model.State)
}

func TestModel_Help(t *testing.T) {
	f := newFixture(t, workflow.NewMemorySurface())

	f.send(runes("?"))
	require.Equal(t, StateHelp, f.model.State)
	assert.Contains(t, f.model.View(), "Restart Steam")

	f.send(runes("x"))
	assert.Equal(t, StateBrowsing, f.model.State)
}

func TestModel_OverlayRendering(t *testing.T) {
	surface := workflow.NewMemorySurface()
	f := newFixture(t, surface)

	modal := workflow.Modal{
		Title:           workflow.TitleFor("ryuu"),
		Status:          domain.LabelDownloading,
		ProgressVisible: true,
		Percent:         50,
		Action:          workflow.ActionClose,
	}
	require.True(t, surface.OpenOverlay(modal))
	f.send(TickMsg{})

	view := f.model.View()
	assert.Contains(t, view, "reverig-tool · ryuu")
	assert.Contains(t, view, domain.LabelDownloading)
	assert.Contains(t, view, "50%")
	assert.Contains(t, view, workflow.ActionClose)

	f.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, f.model.Page.OverlayOpen)
	assert.False(t, surface.OverlayOpen())
}

func TestModel_HistoryFilter(t *testing.T) {
	f := newFixture(t, workflow.NewMemorySurface())
	now := time.Now()
	f.send(HistoryLoadedMsg{Entries: []domain.HistoryEntry{
		{ID: "1", AppID: 620, Title: "Portal 2", Operation: domain.OperationAdd, Outcome: domain.OutcomeSucceeded, FinishedAt: now},
		{ID: "2", AppID: 70, Title: "Half-Life", Operation: domain.OperationRemove, Outcome: domain.OutcomeFailed, FinishedAt: now},
	}})
	require.Equal(t, 2, f.model.History.Len())
	assert.Contains(t, f.model.View(), "Half-Life")

	f.send(runes("/"))
	require.True(t, f.model.History.IsFilterTyping())
	for _, r := range "port" {
		f.send(runes(string(r)))
	}
	assert.Equal(t, "port", f.model.History.Query())
	require.Equal(t, 1, f.model.History.Len())
	sel, ok := f.model.History.Selected()
	require.True(t, ok)
	assert.Equal(t, "Portal 2", sel.Title)

	f.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, f.model.History.IsFilterTyping())
	assert.True(t, f.model.History.IsFiltering())

	f.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, f.model.History.IsFiltering())
	assert.Equal(t, 2, f.model.History.Len())
}

func TestModel_EventsClosed(t *testing.T) {
	f := newFixture(t, workflow.NewMemorySurface())
	close(f.events)

	f.run(t, WaitForEventCmd(f.events))
	assert.Nil(t, f.model.events)
	assert.Nil(t, WaitForEventCmd(f.model.events))
}

func TestChannelObserver_NonBlocking(t *testing.T) {
	ch := make(chan domain.WorkflowEvent, 1)
	o := NewChannelObserver(ch)

	o.OnEvent(domain.WorkflowEvent{AppID: 1, Phase: domain.PhaseChecking})
	o.OnEvent(domain.WorkflowEvent{AppID: 2, Phase: domain.PhaseDownloading}) // dropped

	require.Len(t, ch, 1)
	assert.Equal(t, domain.AppID(1), (<-ch).AppID)
}

func TestChannelObserver_TerminalEvictsOldest(t *testing.T) {
	ch := make(chan domain.WorkflowEvent, 1)
	o := NewChannelObserver(ch)

	o.OnEvent(domain.WorkflowEvent{AppID: 1, Phase: domain.PhaseDownloading})
	o.OnEvent(domain.WorkflowEvent{AppID: 1, Phase: domain.PhaseDone})

	require.Len(t, ch, 1)
	assert.Equal(t, domain.PhaseDone, (<-ch).Phase)
}
