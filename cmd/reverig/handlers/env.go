// Package handlers executes the reverig CLI commands.
package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/reverig/internal/adapter"
	"github.com/mmcdole/reverig/internal/bridge"
	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/metrics"
	"github.com/mmcdole/reverig/internal/service"
	"github.com/mmcdole/reverig/internal/store"
	"github.com/mmcdole/reverig/internal/workflow"
)

// Backend is what the commands need from the host bridge.
type Backend interface {
	domain.ToolRepository
	domain.RemoteLogger
	Close() error
}

// Factory function variables - can be replaced in tests.
var (
	loadConfig = adapter.LoadConfig

	setupLogger = adapter.SetupLogger

	newBackend = func(ctx context.Context, cfg adapter.BackendConfig, logger *slog.Logger, hook bridge.CallHook) (Backend, error) {
		return bridge.New(ctx, cfg, logger, bridge.WithCallHook(hook))
	}
)

// env holds the collaborators shared by every command
type env struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	backend Backend
	store   *store.HistoryStore
	history *service.HistoryService

	stopMetrics context.CancelFunc
	metricsDone chan struct{}
}

// openEnv loads configuration, sets up logging and opens the history store.
// The backend is connected only when withBackend is set.
func openEnv(ctx context.Context, configPath string, withBackend bool) (*env, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	base, err := setupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		base = adapter.NullLogger()
	}

	e := &env{cfg: cfg, logger: base, metrics: metrics.New()}

	storePath, err := adapter.ExpandHome(cfg.Store.Path)
	if err == nil {
		e.store, err = store.NewHistoryStore(storePath)
	}
	if err != nil {
		base.Warn("history store unavailable, keeping history in memory", "path", cfg.Store.Path, "error", err)
		e.store, _ = store.NewHistoryStore("")
	}
	e.history = service.NewHistoryService(e.store, base)

	if withBackend {
		e.backend, err = newBackend(ctx, cfg.Backend, base, e.metrics.ObserveCall)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("failed to connect to backend: %w", err)
		}
		if cfg.Logging.Forward {
			// The bridge keeps the base logger so a failed forward is not forwarded again
			e.logger = slog.New(bridge.NewForwardHandler(base.Handler(), e.backend))
		}
	}
	slog.SetDefault(e.logger)

	if cfg.Metrics.Addr != "" {
		mctx, cancel := context.WithCancel(ctx)
		e.stopMetrics = cancel
		e.metricsDone = make(chan struct{})
		go func() {
			defer close(e.metricsDone)
			if err := e.metrics.Serve(mctx, cfg.Metrics.Addr, e.logger); err != nil {
				e.logger.Error("metrics server failed", "addr", cfg.Metrics.Addr, "error", err)
			}
		}()
	}

	return e, nil
}

// controller builds a controller that records history and metrics
// in addition to the given observers
func (e *env) controller(surface workflow.Surface, observers ...domain.WorkflowObserver) *workflow.Controller {
	all := domain.MultiObserver{e.history, e.metrics}
	all = append(all, observers...)
	return workflow.NewController(e.backend, surface,
		workflow.WithObserver(all),
		workflow.WithLogger(e.logger),
		workflow.WithPollInterval(e.cfg.Workflow.PollInterval),
		workflow.WithHideDelay(e.cfg.Workflow.HideDelay),
		workflow.WithFollowUpTimeout(e.cfg.Backend.Timeout),
	)
}

func (e *env) setup() *workflow.Setup {
	return workflow.NewSetup(e.backend, e.logger)
}

// Close releases everything openEnv acquired
func (e *env) Close() {
	if e.stopMetrics != nil {
		e.stopMetrics()
		<-e.metricsDone
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.logger.Debug("closing backend", "error", err)
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("closing history store", "error", err)
		}
	}
}
