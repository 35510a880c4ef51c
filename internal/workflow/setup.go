package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mmcdole/reverig/internal/domain"
)

// Setup inserts the restart and tool buttons into a surface.
//
// One Setup is created at program start and reused for every run. Runs are
// idempotent per surface: buttons are inserted at most once, a presence
// check already in flight for the same identifier is not repeated, and the
// "button row missing" and "button exists" conditions are logged once.
type Setup struct {
	repo   domain.ToolRepository
	logger *slog.Logger

	mu               sync.Mutex
	surface          Surface
	buttonInserted   bool
	restartInserted  bool
	presenceInFlight bool
	presenceAppID    domain.AppID
	rowMissingLogged bool
	existsLogged     bool
}

// NewSetup creates the setup state-holder
func NewSetup(repo domain.ToolRepository, logger *slog.Logger) *Setup {
	if logger == nil {
		logger = slog.Default()
	}
	return &Setup{
		repo:   repo,
		logger: logger.With("component", "setup"),
	}
}

// Run inserts the buttons for id. It returns ErrNoButtonRow when the
// surface has nowhere to put them; presence failures fall back to add mode.
func (s *Setup) Run(ctx context.Context, surface Surface, id domain.AppID) error {
	if !id.Valid() {
		return domain.ErrInvalidAppID
	}

	s.mu.Lock()
	if s.surface != surface {
		s.reset(surface)
	}

	if !surface.HasButtonRow() {
		if !s.rowMissingLogged {
			s.rowMissingLogged = true
			s.logger.Warn("button row missing", "appid", id)
		}
		s.mu.Unlock()
		return ErrNoButtonRow
	}

	s.insertRestart(surface)

	if s.buttonInserted || surface.HasToolButton() {
		s.buttonInserted = true
		if !s.existsLogged {
			s.existsLogged = true
			s.logger.Debug("tool button already exists", "appid", id)
		}
		s.mu.Unlock()
		return nil
	}

	if s.presenceInFlight && s.presenceAppID == id {
		s.mu.Unlock()
		return nil
	}
	s.presenceInFlight = true
	s.presenceAppID = id
	s.mu.Unlock()

	mode := s.presence(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.presenceInFlight = false

	if s.surface != surface || s.buttonInserted || surface.HasToolButton() {
		return nil
	}
	if err := surface.InsertToolButton(mode); err != nil {
		s.logger.Warn("failed to insert tool button", "appid", id, "error", err)
		return err
	}
	s.buttonInserted = true
	s.logger.Info("inserted tool button", "appid", id, "mode", mode)
	return nil
}

// reset points the holder at a new surface. Caller holds s.mu.
func (s *Setup) reset(surface Surface) {
	s.surface = surface
	s.buttonInserted = false
	s.restartInserted = false
	s.presenceInFlight = false
	s.presenceAppID = 0
	s.rowMissingLogged = false
	s.existsLogged = false
}

// insertRestart adds the restart button once. Caller holds s.mu.
func (s *Setup) insertRestart(surface Surface) {
	if s.restartInserted {
		return
	}
	if surface.HasRestartButton() {
		s.restartInserted = true
		return
	}
	if err := surface.InsertRestartButton(); err != nil {
		if !errors.Is(err, ErrNoButtonRow) {
			s.logger.Warn("failed to insert restart button", "error", err)
		}
		return
	}
	s.restartInserted = true
}

// presence returns the mode the tool button should start in
func (s *Setup) presence(ctx context.Context, id domain.AppID) domain.Mode {
	res, err := s.repo.HasTool(ctx, id)
	switch {
	case err != nil:
		s.logger.Warn("presence check failed, defaulting to add", "appid", id, "error", err)
		return domain.ModeAdd
	case !res.Success:
		s.logger.Warn("presence check unsuccessful, defaulting to add", "appid", id, "error", res.Error)
		return domain.ModeAdd
	case res.Exists:
		return domain.ModeRemove
	default:
		return domain.ModeAdd
	}
}
