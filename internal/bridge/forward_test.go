package bridge

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRemote struct {
	mu       sync.Mutex
	messages []string
	err      error
	// logger, when set, is used from inside Warn to simulate a transport
	// that logs its own failure through the forwarding logger
	logger *slog.Logger
}

func (r *recordingRemote) Warn(ctx context.Context, message string) error {
	r.mu.Lock()
	r.messages = append(r.messages, message)
	logger := r.logger
	r.mu.Unlock()
	if logger != nil {
		logger.ErrorContext(ctx, "bridge request failed", "method", MethodLoggerWarn)
	}
	return r.err
}

func (r *recordingRemote) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func TestForwardHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	remote := &recordingRemote{}
	logger := slog.New(NewForwardHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}), remote))

	logger.Debug("dropped")
	logger.Info("local only")
	logger.With("component", "workflow").Warn("button row missing", "appid", 440)
	logger.Error("failed")

	assert.Equal(t, []string{
		"[reverig] button row missing component=workflow appid=440",
		"[reverig] failed",
	}, remote.Messages())

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "local only")
	assert.Contains(t, out, "button row missing")
}

func TestForwardHandlerNoRecursion(t *testing.T) {
	t.Parallel()

	remote := &recordingRemote{err: errors.New("unreachable")}
	logger := slog.New(NewForwardHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), remote))
	remote.logger = logger

	logger.Warn("first")

	require.Len(t, remote.Messages(), 1)
}

func TestForwardHandlerWarnBelowNextLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	remote := &recordingRemote{}
	h := NewForwardHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}), remote)

	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	slog.New(h).Warn("forwarded only")

	assert.Empty(t, buf.String())
	assert.Len(t, remote.Messages(), 1)
}

// blockingRemote holds the first Warn until release is closed
type blockingRemote struct {
	recordingRemote
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *blockingRemote) Warn(ctx context.Context, message string) error {
	first := false
	r.once.Do(func() { first = true })
	if first {
		close(r.entered)
		<-r.release
	}
	return r.recordingRemote.Warn(ctx, message)
}

func TestForwardHandlerConcurrentWarnings(t *testing.T) {
	t.Parallel()

	remote := &blockingRemote{entered: make(chan struct{}), release: make(chan struct{})}
	logger := slog.New(NewForwardHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), remote))

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Warn("first")
	}()
	<-remote.entered

	logger.Warn("second")
	close(remote.release)
	<-done

	assert.ElementsMatch(t, []string{"[reverig] first", "[reverig] second"}, remote.Messages())
}
