package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event WorkflowEvent
		want  Outcome
	}{
		{name: "done", event: WorkflowEvent{Phase: PhaseDone}, want: OutcomeSucceeded},
		{name: "failed", event: WorkflowEvent{Phase: PhaseFailed}, want: OutcomeFailed},
		{name: "overlay closed", event: WorkflowEvent{Phase: PhaseIdle, Err: context.Canceled}, want: OutcomeCancelled},
		{name: "remove error", event: WorkflowEvent{Phase: PhaseIdle, Err: ErrRemoteFailure}, want: OutcomeFailed},
		{name: "remove ok", event: WorkflowEvent{Phase: PhaseIdle}, want: OutcomeSucceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, OutcomeOf(tt.event))
		})
	}
}

func TestHistoryEntry(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := HistoryEntry{AppID: 440, StartedAt: start, FinishedAt: start.Add(90 * time.Second)}
	assert.Equal(t, 90*time.Second, e.Duration())
	assert.Equal(t, "App 440", e.DisplayTitle())

	e.Title = "Team Fortress 2"
	e.FinishedAt = time.Time{}
	assert.Equal(t, time.Duration(0), e.Duration())
	assert.Equal(t, "Team Fortress 2", e.DisplayTitle())
}
