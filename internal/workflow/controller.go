package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/reverig/internal/domain"
)

const (
	DefaultPollInterval    = 300 * time.Millisecond
	DefaultHideDelay       = 300 * time.Millisecond
	DefaultFollowUpTimeout = 10 * time.Second
)

// ConfirmFunc asks the user to confirm an action
type ConfirmFunc func(ctx context.Context) (bool, error)

// Controller drives the add/remove workflow for one surface
type Controller struct {
	repo     domain.ToolRepository
	surface  Surface
	observer domain.WorkflowObserver
	logger   *slog.Logger
	guard    Guard

	pollInterval    time.Duration
	hideDelay       time.Duration
	followUpTimeout time.Duration
	now             func() time.Time

	// base outlives individual calls; background work (polling, DLCs) uses it
	base       context.Context
	cancelBase context.CancelFunc
	bg         sync.WaitGroup

	mu        sync.Mutex
	poller    *Poller
	hideTimer *time.Timer
	modal     Modal
	phase     domain.Phase
	phaseApp  domain.AppID
}

// Option configures a Controller
type Option func(*Controller)

// WithObserver registers the observer receiving workflow events
func WithObserver(o domain.WorkflowObserver) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithLogger sets the controller logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPollInterval sets the status poll interval
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithHideDelay sets how long the full progress bar stays after done
func WithHideDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.hideDelay = d
		}
	}
}

// WithFollowUpTimeout bounds the background AddDLCs call made after done
func WithFollowUpTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.followUpTimeout = d
		}
	}
}

// NewController creates a controller rendering into surface
func NewController(repo domain.ToolRepository, surface Surface, opts ...Option) *Controller {
	base, cancel := context.WithCancel(context.Background())
	c := &Controller{
		repo:         repo,
		surface:      surface,
		observer:     domain.NoOpObserver{},
		logger:       slog.Default(),
		pollInterval:    DefaultPollInterval,
		hideDelay:       DefaultHideDelay,
		followUpTimeout: DefaultFollowUpTimeout,
		now:             time.Now,
		base:            base,
		cancelBase:      cancel,
		phase:           domain.PhaseIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "workflow")
	return c
}

// Surface returns the surface the controller renders into
func (c *Controller) Surface() Surface {
	return c.surface
}

// InProgress reports whether an add or remove for id is running
func (c *Controller) InProgress(id domain.AppID) bool {
	return c.guard.Holds(id)
}

// Phase returns the workflow phase for id
func (c *Controller) Phase(id domain.AppID) domain.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phaseApp != id {
		return domain.PhaseIdle
	}
	return c.phase
}

// Modal returns the controller's copy of the overlay state
func (c *Controller) Modal() Modal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modal
}

// Click dispatches on the tool button's current mode
func (c *Controller) Click(ctx context.Context, id domain.AppID) error {
	if !id.Valid() {
		return domain.ErrInvalidAppID
	}
	if c.guard.Holds(id) {
		c.logger.Info("operation already in progress", "appid", id)
		return domain.ErrInProgress
	}
	if c.surface.ButtonMode() == domain.ModeRemove {
		return c.Remove(ctx, id)
	}
	return c.Start(ctx, id)
}

// Start runs the add action: open the overlay, ask the backend to start
// the install and poll its status until done, failed or the overlay closes.
func (c *Controller) Start(ctx context.Context, id domain.AppID) error {
	if !id.Valid() {
		return domain.ErrInvalidAppID
	}
	if !c.guard.TryAcquire(id) {
		c.logger.Info("operation already in progress", "appid", id)
		return domain.ErrInProgress
	}

	c.mu.Lock()
	c.stopLocked()
	c.stopHideLocked()
	c.modal = NewModal()
	modal := c.modal
	c.phase = domain.PhaseStarting
	c.phaseApp = id
	c.mu.Unlock()

	if !c.surface.OpenOverlay(modal) {
		c.logger.Debug("overlay already open", "appid", id)
		c.surface.RenderOverlay(modal)
	}
	c.emit(domain.WorkflowEvent{AppID: id, Operation: domain.OperationAdd, Phase: domain.PhaseStarting})

	if err := c.repo.StartAdd(ctx, id); err != nil {
		c.logger.Warn("start add failed", "appid", id, "error", err)
	}
	c.logger.Info("add started", "appid", id)

	c.mu.Lock()
	c.poller = StartPoller(c.base, c.pollInterval, func(pctx context.Context) bool {
		return c.tick(pctx, id)
	})
	c.mu.Unlock()
	return nil
}

// Wait blocks until the current poller exits or ctx is done
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	p := c.poller
	c.mu.Unlock()
	if p == nil {
		return nil
	}
	select {
	case <-p.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tick performs one poll for id
func (c *Controller) tick(ctx context.Context, id domain.AppID) bool {
	if !c.surface.OverlayOpen() {
		c.logger.Info("overlay closed, polling stopped", "appid", id)
		c.guard.Release()
		c.setPhase(id, domain.PhaseIdle)
		c.emit(domain.WorkflowEvent{
			AppID:     id,
			Operation: domain.OperationAdd,
			Phase:     domain.PhaseIdle,
			Mode:      c.surface.ButtonMode(),
			Err:       context.Canceled,
		})
		return false
	}

	res, err := c.repo.AddStatus(ctx, id)
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		c.logger.Debug("status poll failed", "appid", id, "error", err)
		return true
	}
	if !res.Success {
		return true
	}
	return c.apply(ctx, id, res.State)
}

// apply renders one status and returns false on a terminal status
func (c *Controller) apply(ctx context.Context, id domain.AppID, state domain.StatusState) bool {
	c.mu.Lock()
	if ctx.Err() != nil {
		c.mu.Unlock()
		return false
	}

	if state.CurrentAPI != "" {
		c.modal.Title = TitleFor(state.CurrentAPI)
	}
	if label := state.Status.Label(); label != "" {
		c.modal.Status = label
	}
	c.phase = domain.PhaseFor(state.Status, c.phase)

	event := domain.WorkflowEvent{
		AppID:     id,
		Operation: domain.OperationAdd,
		State:     state,
	}

	switch state.Status {
	case domain.StatusDownloading:
		c.modal.ProgressVisible = true
		c.modal.Percent = state.Percent()

	case domain.StatusDone:
		c.modal.ProgressVisible = true
		c.modal.Percent = 100
		c.modal.Status = domain.LabelAdded
		c.modal.Action = ActionDone
		c.scheduleHideLocked()

	case domain.StatusFailed:
		c.modal.Status = domain.LabelFailedHelp
		c.modal.Action = ActionClose
		c.modal.ProgressVisible = false
	}

	modal := c.modal
	event.Phase = c.phase
	event.Percent = modal.Percent
	c.mu.Unlock()

	c.surface.RenderOverlay(modal)

	switch state.Status {
	case domain.StatusDone:
		c.guard.Release()
		c.surface.SetButtonMode(domain.ModeRemove)
		c.logger.Info("add finished", "appid", id, "api", state.CurrentAPI)
		c.addDLCs(id)
	case domain.StatusFailed:
		c.guard.Release()
		c.logger.Warn("add failed", "appid", id, "error", state.Error)
		if state.Error != "" {
			event.Err = fmt.Errorf("%w: %s", domain.ErrRemoteFailure, state.Error)
		} else {
			event.Err = domain.ErrRemoteFailure
		}
	}

	event.Mode = c.surface.ButtonMode()
	c.emit(event)
	return !state.Status.IsTerminal()
}

// scheduleHideLocked hides the progress bar after the hide delay. Caller holds c.mu.
func (c *Controller) scheduleHideLocked() {
	c.stopHideLocked()
	c.hideTimer = time.AfterFunc(c.hideDelay, c.hideProgress)
}

// stopHideLocked cancels a pending hide and reports whether one was pending.
// Caller holds c.mu.
func (c *Controller) stopHideLocked() bool {
	if c.hideTimer == nil {
		return false
	}
	pending := c.hideTimer.Stop()
	c.hideTimer = nil
	return pending
}

func (c *Controller) hideProgress() {
	c.mu.Lock()
	c.modal.ProgressVisible = false
	modal := c.modal
	c.mu.Unlock()
	c.surface.RenderOverlay(modal)
}

// addDLCs adds related content in the background; the outcome is only logged
func (c *Controller) addDLCs(id domain.AppID) {
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		ctx, cancel := context.WithTimeout(c.base, c.followUpTimeout)
		defer cancel()
		res, err := c.repo.AddDLCs(ctx, id)
		switch {
		case err != nil:
			c.logger.Warn("auto-add DLCs failed", "appid", id, "error", err)
		case !res.Success:
			c.logger.Warn("auto-add DLCs unsuccessful", "appid", id, "error", res.Error)
		default:
			c.logger.Info("Auto-added DLCs: "+res.Message, "appid", id)
		}
	}()
}

// Remove runs the remove action. The guard is released and any overlay
// closed however the backend answers.
func (c *Controller) Remove(ctx context.Context, id domain.AppID) (err error) {
	if !id.Valid() {
		return domain.ErrInvalidAppID
	}
	if !c.guard.TryAcquire(id) {
		c.logger.Info("operation already in progress", "appid", id)
		return domain.ErrInProgress
	}

	c.setPhase(id, domain.PhaseRemoving)
	c.emit(domain.WorkflowEvent{AppID: id, Operation: domain.OperationRemove, Phase: domain.PhaseRemoving})

	defer func() {
		c.guard.Release()
		c.surface.CloseOverlay()
		c.setPhase(id, domain.PhaseIdle)
		c.emit(domain.WorkflowEvent{
			AppID:     id,
			Operation: domain.OperationRemove,
			Phase:     domain.PhaseIdle,
			Mode:      c.surface.ButtonMode(),
			Err:       err,
		})
	}()

	res, err := c.repo.RemoveTool(ctx, id)
	if err != nil {
		c.logger.Warn("remove failed", "appid", id, "error", err)
		return fmt.Errorf("remove %d: %w", id, err)
	}
	if !res.Success {
		c.logger.Warn("remove unsuccessful", "appid", id, "error", res.Error)
		return fmt.Errorf("remove %d: %w: %s", id, domain.ErrRemoteFailure, res.Error)
	}

	c.surface.SetButtonMode(domain.ModeAdd)
	c.logger.Info("removed", "appid", id, "removed", res.Removed)
	return nil
}

// Restart asks confirm and then requests a host restart.
// A nil confirm restarts without asking.
func (c *Controller) Restart(ctx context.Context, confirm ConfirmFunc) error {
	if confirm != nil {
		ok, err := confirm(ctx)
		if err != nil {
			return err
		}
		if !ok {
			c.logger.Debug("restart cancelled")
			return nil
		}
	}

	err := c.repo.RestartHost(ctx)
	if err != nil {
		c.logger.Warn("restart failed", "error", err)
		err = fmt.Errorf("restart: %w", err)
	} else {
		c.logger.Info("restart requested")
	}
	c.emit(domain.WorkflowEvent{Operation: domain.OperationRestart, Phase: domain.PhaseIdle, Err: err})
	return err
}

// CloseOverlay disposes of the overlay; a running poll notices on its next tick
func (c *Controller) CloseOverlay() {
	c.surface.CloseOverlay()
}

// Close stops polling, applies a pending progress hide and waits for
// background calls to finish before cancelling them.
func (c *Controller) Close() {
	c.mu.Lock()
	p := c.poller
	c.stopLocked()
	c.mu.Unlock()
	if p != nil {
		<-p.Done()
	}

	c.mu.Lock()
	hide := c.stopHideLocked()
	c.mu.Unlock()
	if hide {
		c.hideProgress()
	}

	c.bg.Wait()
	c.cancelBase()
}

// stopLocked stops the current poller. Caller holds c.mu.
func (c *Controller) stopLocked() {
	if c.poller != nil {
		c.poller.Stop()
		c.poller = nil
	}
}

func (c *Controller) setPhase(id domain.AppID, phase domain.Phase) {
	c.mu.Lock()
	c.phase = phase
	c.phaseApp = id
	c.mu.Unlock()
}

func (c *Controller) emit(e domain.WorkflowEvent) {
	e.At = c.now()
	c.observer.OnEvent(e)
}
