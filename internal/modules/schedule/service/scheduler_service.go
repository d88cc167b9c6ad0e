package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"blockgarden/internal/modules/schedule/domain"
	scheduleout "blockgarden/internal/modules/schedule/port/out"
	"blockgarden/internal/platform/clock"
	apperrors "blockgarden/internal/platform/errors"

	hclog "github.com/hashicorp/go-hclog"
)

type Options struct {
	Grid      domain.Grid
	Layout    domain.Layout
	Tolerance int // minutes
}

// SchedulerService owns the block list and the current index. Both the TUI
// and the focus controller call it from their own goroutines.
type SchedulerService struct {
	clock  clock.Clock
	store  scheduleout.BlockStore
	opts   Options
	logger hclog.Logger

	mu      sync.Mutex
	blocks  []domain.TimeBlock
	current int
	loaded  bool
}

func NewSchedulerService(clock clock.Clock, store scheduleout.BlockStore, opts Options, logger hclog.Logger) *SchedulerService {
	if opts.Layout.BlockMinutes <= 0 || opts.Layout.DayBlocks <= 0 {
		opts.Layout = domain.DefaultLayout()
	}
	if opts.Grid == nil {
		opts.Grid = domain.CurrentSlotGrid{BlockMinutes: opts.Layout.BlockMinutes}
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = 5
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SchedulerService{clock: clock, store: store, opts: opts, logger: logger}
}

func (s *SchedulerService) Grid() domain.Grid { return s.opts.Grid }

// Load reconciles the persisted list against the clock. Absent, unreadable
// or stale data is replaced by a fresh day; it never fails.
func (s *SchedulerService) Load(ctx context.Context) ([]domain.TimeBlock, bool) {
	now := s.clock.Now()
	persisted, err := s.store.LoadBlocks(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("discarding unreadable block list", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil && domain.Valid(persisted, s.opts.Layout) && domain.Fresh(persisted, s.opts.Grid, now, s.opts.Tolerance) && s.sameDayLocked(ctx, now) {
		s.blocks = persisted
		s.current = domain.CurrentOf(persisted)
		if s.current < 0 {
			s.current = s.opts.Grid.CurrentIndex(now, s.opts.Layout.DayBlocks)
		}
		s.loaded = true
		return s.snapshotLocked(), false
	}
	s.regenerateLocked(ctx, now)
	return s.snapshotLocked(), true
}

// Regenerate discards the current list and lays out a fresh day.
func (s *SchedulerService) Regenerate(ctx context.Context) []domain.TimeBlock {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerateLocked(ctx, now)
	return s.snapshotLocked()
}

func (s *SchedulerService) regenerateLocked(ctx context.Context, now time.Time) {
	s.blocks = domain.Generate(s.opts.Grid, s.opts.Layout, now)
	s.current = domain.CurrentOf(s.blocks)
	s.loaded = true
	s.logger.Info("generated day", "grid", s.opts.Grid.Name(), "first_block", s.blocks[0].StartTime.String())
	if err := s.store.SaveBlocks(ctx, s.blocks); err != nil {
		s.logger.Error("persisting generated day", "error", err)
		return
	}
	if day := s.opts.Grid.Day(now); day != "" {
		if err := s.store.SaveDay(ctx, day); err != nil {
			s.logger.Error("persisting planning day", "error", err)
		}
	}
}

// sameDayLocked reports whether the stored list was generated for the
// planning day of now. Lists without a recorded day are kept.
func (s *SchedulerService) sameDayLocked(ctx context.Context, now time.Time) bool {
	want := s.opts.Grid.Day(now)
	if want == "" {
		return true
	}
	stored, err := s.store.LoadDay(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("reading planning day", "error", err)
		}
		return true
	}
	if stored != want {
		s.logger.Info("block list belongs to another day", "stored", stored, "today", want)
		return false
	}
	return true
}

// Blocks returns a copy of the list, loading it first when needed.
func (s *SchedulerService) Blocks(ctx context.Context) ([]domain.TimeBlock, int) {
	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), s.current
}

// Current returns the block at the current index; false for a dangling index.
func (s *SchedulerService) Current(ctx context.Context) (domain.TimeBlock, int, bool) {
	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.blocks {
		if b.ID == s.current {
			return b, s.current, true
		}
	}
	return domain.TimeBlock{}, s.current, false
}

// Select moves the current index. Unknown ids are kept as a dangling reference.
func (s *SchedulerService) Select(ctx context.Context, id int) {
	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.blocks) {
		s.logger.Debug("selecting block outside the day", "id", id)
	}
	s.current = id
}

// Update merges patch into block id and persists the list before returning.
// An unknown id leaves the list untouched and writes nothing; a failed save
// keeps the previous list.
func (s *SchedulerService) Update(ctx context.Context, id int, patch domain.Patch) ([]domain.TimeBlock, bool, error) {
	if err := patch.Validate(); err != nil {
		return nil, false, errors.Join(apperrors.ErrInvalidInput, err)
	}
	s.ensureLoaded(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := domain.Merge(s.blocks, id, patch)
	if !ok {
		s.logger.Debug("ignoring update for unknown block", "id", id)
		return s.snapshotLocked(), false, nil
	}
	if err := s.store.SaveBlocks(ctx, next); err != nil {
		s.logger.Error("persisting block update", "id", id, "error", err)
		return s.snapshotLocked(), false, err
	}
	s.blocks = next
	return s.snapshotLocked(), true, nil
}

func (s *SchedulerService) ensureLoaded(ctx context.Context) {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if !loaded {
		s.Load(ctx)
	}
}

func (s *SchedulerService) snapshotLocked() []domain.TimeBlock {
	out := make([]domain.TimeBlock, len(s.blocks))
	copy(out, s.blocks)
	return out
}
