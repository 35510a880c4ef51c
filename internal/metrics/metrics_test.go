package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reverig/internal/domain"
)

func TestObserveCall(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveCall("HasReverigToolForApp", 20*time.Millisecond, nil)
	m.ObserveCall("HasReverigToolForApp", time.Second, context.DeadlineExceeded)
	m.ObserveCall("StartAddViaReverigTool", time.Millisecond, domain.ErrBackendUnavailable)
	m.ObserveCall("StartAddViaReverigTool", time.Millisecond, errors.New("boom"))

	tests := []struct {
		method, result string
	}{
		{"HasReverigToolForApp", "success"},
		{"HasReverigToolForApp", "timeout"},
		{"StartAddViaReverigTool", "unavailable"},
		{"StartAddViaReverigTool", "error"},
	}
	for _, tt := range tests {
		counter, err := m.callsTotal.GetMetricWithLabelValues(tt.method, tt.result)
		require.NoError(t, err)
		assert.Equal(t, float64(1), testutil.ToFloat64(counter), tt.method+"/"+tt.result)
	}

	assert.Equal(t, 2, testutil.CollectAndCount(m.callLatency))
}

func TestOnEvent(t *testing.T) {
	t.Parallel()

	m := New()
	m.OnEvent(domain.WorkflowEvent{Operation: domain.OperationAdd, Phase: domain.PhaseStarting})
	m.OnEvent(domain.WorkflowEvent{Operation: domain.OperationAdd, Phase: domain.PhaseDownloading,
		State: domain.StatusState{Status: domain.StatusDownloading}})
	m.OnEvent(domain.WorkflowEvent{Operation: domain.OperationAdd, Phase: domain.PhaseDownloading,
		State: domain.StatusState{Status: domain.StatusDownloading}})
	m.OnEvent(domain.WorkflowEvent{Operation: domain.OperationAdd, Phase: domain.PhaseDone,
		State: domain.StatusState{Status: domain.StatusDone}})
	m.OnEvent(domain.WorkflowEvent{Operation: domain.OperationRemove, Phase: domain.PhaseIdle, Err: domain.ErrRemoteFailure})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.pollsTotal.WithLabelValues("downloading")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.pollsTotal.WithLabelValues("done")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.outcomeTotal.WithLabelValues("add", "succeeded")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.outcomeTotal.WithLabelValues("remove", "failed")))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveCall("RestartSteam", time.Millisecond, nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `reverig_backend_calls_total{method="RestartSteam",result="success"} 1`)
}
