package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reverig/internal/adapter"
	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/store"
	"github.com/mmcdole/reverig/internal/workflow"
	"github.com/mmcdole/reverig/internal/workflow/workflowtest"
)

func newService(t *testing.T) *HistoryService {
	t.Helper()
	s, err := store.NewHistoryStore("")
	require.NoError(t, err)
	return NewHistoryService(s, adapter.NullLogger())
}

func TestHistoryRecordsTerminalEvents(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	svc.SetTitle(440, "Team Fortress 2")
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := []domain.WorkflowEvent{
		{AppID: 440, Operation: domain.OperationAdd, Phase: domain.PhaseStarting, At: start},
		{AppID: 440, Operation: domain.OperationAdd, Phase: domain.PhaseDownloading,
			State: domain.StatusState{Status: domain.StatusDownloading, CurrentAPI: "mirror-1"}, At: start.Add(time.Second)},
		{AppID: 440, Operation: domain.OperationAdd, Phase: domain.PhaseDone,
			State: domain.StatusState{Status: domain.StatusDone}, At: start.Add(3 * time.Second)},
		{AppID: 440, Operation: domain.OperationRemove, Phase: domain.PhaseRemoving, At: start.Add(4 * time.Second)},
		{AppID: 440, Operation: domain.OperationRemove, Phase: domain.PhaseIdle, Err: errors.New("locked"), At: start.Add(5 * time.Second)},
	}
	for _, e := range events {
		svc.OnEvent(e)
	}

	entries, err := svc.ForApp(440)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	remove, add := entries[0], entries[1]

	assert.Equal(t, domain.OperationAdd, add.Operation)
	assert.Equal(t, domain.OutcomeSucceeded, add.Outcome)
	assert.Equal(t, "mirror-1", add.LastAPI)
	assert.Equal(t, "Team Fortress 2", add.Title)
	assert.Equal(t, 3*time.Second, add.Duration())
	assert.NotEmpty(t, add.ID)

	assert.Equal(t, domain.OperationRemove, remove.Operation)
	assert.Equal(t, domain.OutcomeFailed, remove.Outcome)
	assert.Equal(t, "locked", remove.Error)
	assert.Equal(t, time.Second, remove.Duration())
}

func TestHistoryOneEntryPerOperation(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	backend := workflowtest.NewBackend()
	backend.SetStatuses(workflowtest.Script(
		domain.StatusState{Status: domain.StatusChecking},
		domain.StatusState{Status: domain.StatusDone},
	))
	surface := workflow.NewMemorySurface()
	ctrl := workflow.NewController(backend, surface,
		workflow.WithObserver(svc),
		workflow.WithLogger(adapter.NullLogger()),
		workflow.WithPollInterval(5*time.Millisecond),
	)
	t.Cleanup(ctrl.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, surface.InsertToolButton(domain.ModeAdd))
	require.NoError(t, ctrl.Click(ctx, 440))
	require.NoError(t, ctrl.Wait(ctx))
	require.NoError(t, ctrl.Click(ctx, 440))
	require.NoError(t, ctrl.Restart(ctx, nil))

	entries, err := svc.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.OperationRestart, entries[0].Operation)
	assert.Equal(t, domain.OperationRemove, entries[1].Operation)
	assert.Equal(t, domain.OperationAdd, entries[2].Operation)

	require.NoError(t, svc.Clear())
	entries, err = svc.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
