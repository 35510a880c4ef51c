package workflow

import (
	"errors"
	"sync"

	"github.com/mmcdole/reverig/internal/domain"
)

// ErrNoButtonRow indicates the surface has no container for the buttons
var ErrNoButtonRow = errors.New("button row not found")

// Surface is where the controller renders its buttons and overlay.
// Implementations must be safe for concurrent use.
type Surface interface {
	// HasButtonRow reports whether a container for the buttons exists
	HasButtonRow() bool

	HasRestartButton() bool
	InsertRestartButton() error

	HasToolButton() bool
	InsertToolButton(mode domain.Mode) error

	// ButtonMode returns the tool button's mode (ModeAdd when absent)
	ButtonMode() domain.Mode
	SetButtonMode(mode domain.Mode)

	// OpenOverlay shows the overlay. Returns false if one is already open.
	OpenOverlay(m Modal) bool
	// RenderOverlay writes m into the open overlay. Returns false if none is open.
	RenderOverlay(m Modal) bool
	OverlayOpen() bool
	CloseOverlay()
}

// SurfaceState is a point-in-time copy of a MemorySurface
type SurfaceState struct {
	ButtonRow     bool
	RestartButton bool
	ToolButton    bool
	Mode          domain.Mode
	OverlayOpen   bool
	Modal         Modal
}

// MemorySurface is an in-memory Surface used by the terminal host and tests
type MemorySurface struct {
	mu    sync.RWMutex
	state SurfaceState

	inserts  int
	restarts int
	opens    int
	renders  []Modal
}

// NewMemorySurface creates a surface with an empty button row
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{state: SurfaceState{ButtonRow: true, Mode: domain.ModeAdd}}
}

// NewMemorySurfaceWithoutRow creates a surface lacking a button row
func NewMemorySurfaceWithoutRow() *MemorySurface {
	return &MemorySurface{state: SurfaceState{Mode: domain.ModeAdd}}
}

func (s *MemorySurface) HasButtonRow() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ButtonRow
}

func (s *MemorySurface) HasRestartButton() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RestartButton
}

func (s *MemorySurface) InsertRestartButton() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.ButtonRow {
		return ErrNoButtonRow
	}
	if !s.state.RestartButton {
		s.state.RestartButton = true
		s.restarts++
	}
	return nil
}

func (s *MemorySurface) HasToolButton() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ToolButton
}

func (s *MemorySurface) InsertToolButton(mode domain.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.ButtonRow {
		return ErrNoButtonRow
	}
	if !s.state.ToolButton {
		s.state.ToolButton = true
		s.state.Mode = mode
		s.inserts++
	}
	return nil
}

func (s *MemorySurface) ButtonMode() domain.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Mode
}

func (s *MemorySurface) SetButtonMode(mode domain.Mode) {
	s.mu.Lock()
	s.state.Mode = mode
	s.mu.Unlock()
}

func (s *MemorySurface) OpenOverlay(m Modal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.OverlayOpen {
		return false
	}
	s.state.OverlayOpen = true
	s.state.Modal = m
	s.opens++
	s.renders = append(s.renders, m)
	return true
}

func (s *MemorySurface) RenderOverlay(m Modal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.OverlayOpen {
		return false
	}
	s.state.Modal = m
	s.renders = append(s.renders, m)
	return true
}

func (s *MemorySurface) OverlayOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.OverlayOpen
}

func (s *MemorySurface) CloseOverlay() {
	s.mu.Lock()
	s.state.OverlayOpen = false
	s.state.Modal = Modal{}
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state
func (s *MemorySurface) Snapshot() SurfaceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Renders returns every modal state written to the overlay, in order
func (s *MemorySurface) Renders() []Modal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Modal(nil), s.renders...)
}

// Counts returns how often each element was created
func (s *MemorySurface) Counts() (toolButtons, restartButtons, overlays int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inserts, s.restarts, s.opens
}
