package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"blockgarden/internal/modules/garden/domain"
	gardenout "blockgarden/internal/modules/garden/port/out"
	"blockgarden/internal/platform/clock"
	apperrors "blockgarden/internal/platform/errors"
	"blockgarden/internal/platform/id"

	hclog "github.com/hashicorp/go-hclog"
)

type GardenService struct {
	clock           clock.Clock
	idGen           id.Generator
	store           gardenout.HistoryStore
	journal         gardenout.Journal
	sessionDuration time.Duration
	logger          hclog.Logger

	mu sync.Mutex
}

// NewGardenService builds the service. journal may be nil.
func NewGardenService(clock clock.Clock, idGen id.Generator, store gardenout.HistoryStore, journal gardenout.Journal, sessionDuration time.Duration, logger hclog.Logger) *GardenService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GardenService{
		clock:           clock,
		idGen:           idGen,
		store:           store,
		journal:         journal,
		sessionDuration: sessionDuration,
		logger:          logger,
	}
}

// History returns the stored harvests. Absent or unreadable data is an
// empty garden.
func (s *GardenService) History(ctx context.Context) []domain.GardenItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *GardenService) loadLocked(ctx context.Context) []domain.GardenItem {
	history, err := s.store.LoadHistory(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("discarding unreadable garden history", "error", err)
		}
		return []domain.GardenItem{}
	}
	return history
}

// Plant appends a harvest of entityID completed at completedAt and persists
// the history before returning. Only absent or undecodable history restarts
// empty; any other load error aborts without writing.
func (s *GardenService) Plant(ctx context.Context, entityID string, completedAt time.Time) (domain.GardenItem, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return domain.GardenItem{}, apperrors.ErrNoEntitySelected
	}
	if completedAt.IsZero() {
		completedAt = s.clock.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	history, err := s.store.LoadHistory(ctx)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotFound):
		history = []domain.GardenItem{}
	case errors.Is(err, apperrors.ErrCorruptData):
		s.logger.Warn("replacing unreadable garden history", "error", err)
		history = []domain.GardenItem{}
	default:
		return domain.GardenItem{}, fmt.Errorf("load garden history: %w", err)
	}
	item := domain.Harvest(s.idGen.New(), entityID, completedAt, s.sessionDuration)
	history = append(history, item)
	if err := s.store.SaveHistory(ctx, history); err != nil {
		return domain.GardenItem{}, err
	}
	s.logger.Info("harvested", "entity", item.EntityID, "type", string(item.Type), "total", len(history))

	if s.journal != nil {
		day := completedAt
		if path, err := s.journal.Record(ctx, day, domain.OnDay(history, day)); err != nil {
			s.logger.Warn("recording harvest journal", "error", err)
		} else {
			s.logger.Debug("harvest journal updated", "path", path)
		}
	}
	return item, nil
}

func (s *GardenService) Now() time.Time {
	return s.clock.Now()
}
