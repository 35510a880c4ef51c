package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmcdole/reverig/internal/domain"
)

// runRecord tracks an operation between its first and terminal event
type runRecord struct {
	operation domain.Operation
	startedAt time.Time
	lastAPI   string
}

// HistoryService records finished operations into a HistoryStore.
// It implements domain.WorkflowObserver.
type HistoryService struct {
	store  domain.HistoryStore
	logger *slog.Logger

	mu     sync.Mutex
	titles map[domain.AppID]string
	runs   map[domain.AppID]runRecord
}

// NewHistoryService creates a new history service
func NewHistoryService(store domain.HistoryStore, logger *slog.Logger) *HistoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryService{
		store:  store,
		logger: logger.With("component", "history"),
		titles: make(map[domain.AppID]string),
		runs:   make(map[domain.AppID]runRecord),
	}
}

// SetTitle remembers a display title for id (usually the page title)
func (s *HistoryService) SetTitle(id domain.AppID, title string) {
	s.mu.Lock()
	s.titles[id] = title
	s.mu.Unlock()
}

// OnEvent records terminal events
func (s *HistoryService) OnEvent(e domain.WorkflowEvent) {
	if e.Operation == domain.OperationRestart {
		s.record(e, runRecord{operation: e.Operation, startedAt: e.At})
		return
	}

	s.mu.Lock()
	run, ok := s.runs[e.AppID]
	if !ok || run.operation != e.Operation || e.Phase == domain.PhaseStarting || e.Phase == domain.PhaseRemoving {
		run = runRecord{operation: e.Operation, startedAt: e.At}
	}
	if e.State.CurrentAPI != "" {
		run.lastAPI = e.State.CurrentAPI
	}
	if e.Terminal() {
		delete(s.runs, e.AppID)
	} else {
		s.runs[e.AppID] = run
	}
	s.mu.Unlock()

	if e.Terminal() {
		s.record(e, run)
	}
}

func (s *HistoryService) record(e domain.WorkflowEvent, run runRecord) {
	id, err := uuid.NewV7()
	if err != nil {
		s.logger.Error("failed to generate history id", "error", err)
		return
	}

	s.mu.Lock()
	title := s.titles[e.AppID]
	s.mu.Unlock()

	entry := domain.HistoryEntry{
		ID:         id.String(),
		AppID:      e.AppID,
		Title:      title,
		Operation:  run.operation,
		Outcome:    domain.OutcomeOf(e),
		LastAPI:    run.lastAPI,
		StartedAt:  run.startedAt,
		FinishedAt: e.At,
	}
	if e.Err != nil {
		entry.Error = e.Err.Error()
	}

	if err := s.store.Append(entry); err != nil {
		s.logger.Error("failed to record history", "appid", e.AppID, "error", err)
		return
	}
	s.logger.Debug("recorded history", "appid", e.AppID, "operation", entry.Operation, "outcome", entry.Outcome)
}

// List returns every entry, newest first
func (s *HistoryService) List() ([]domain.HistoryEntry, error) {
	return s.store.List()
}

// ForApp returns the entries for one identifier, newest first
func (s *HistoryService) ForApp(id domain.AppID) ([]domain.HistoryEntry, error) {
	return s.store.ForApp(id)
}

// Get returns one entry
func (s *HistoryService) Get(entryID string) (domain.HistoryEntry, error) {
	return s.store.Get(entryID)
}

// Clear deletes all history
func (s *HistoryService) Clear() error {
	s.logger.Info("clearing history")
	return s.store.Clear()
}
