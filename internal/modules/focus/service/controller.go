package service

import (
	"context"
	"sync"
	"time"

	"blockgarden/internal/modules/focus/domain"
	focusout "blockgarden/internal/modules/focus/port/out"
	"blockgarden/internal/platform/clock"
	apperrors "blockgarden/internal/platform/errors"

	hclog "github.com/hashicorp/go-hclog"
)

type Options struct {
	SessionDuration time.Duration
	TickInterval    time.Duration
	Stages          domain.StageTable
}

type Snapshot struct {
	State    domain.State
	Session  domain.Session
	Fraction float64
	Stage    int
	BlockID  int
	HasBlock bool
}

// Controller drives one focus session. It owns at most one ticker; every
// exit from Running cancels it, and ticks from a cancelled ticker are
// discarded by generation.
type Controller struct {
	clock    clock.Clock
	ticks    clock.TickSource
	garden   focusout.Garden
	schedule focusout.Schedule
	opts     Options
	logger   hclog.Logger

	mu          sync.Mutex
	session     domain.Session
	ticker      clock.Ticker
	done        chan struct{}
	generation  uint64
	subscribers map[int]chan domain.Event
	nextSub     int
}

func NewController(clock clock.Clock, ticks clock.TickSource, garden focusout.Garden, schedule focusout.Schedule, opts Options, logger hclog.Logger) *Controller {
	if opts.SessionDuration <= 0 {
		opts.SessionDuration = 90 * time.Minute
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Stages.Name == "" {
		opts.Stages = domain.FrontLoaded
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Controller{
		clock:       clock,
		ticks:       ticks,
		garden:      garden,
		schedule:    schedule,
		opts:        opts,
		logger:      logger,
		session:     domain.NewSession(opts.SessionDuration),
		subscribers: map[int]chan domain.Event{},
	}
}

func (c *Controller) Stages() domain.StageTable { return c.opts.Stages }

func (c *Controller) SelectEntity(entityID string) (domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.session.Select(entityID); err != nil {
		return c.session, err
	}
	return c.session, nil
}

// SelectBlock points the session at another block. Not allowed while running.
func (c *Controller) SelectBlock(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.IsActive {
		return apperrors.ErrSessionRunning
	}
	return c.schedule.SelectBlock(ctx, id)
}

func (c *Controller) Start() (domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.session.Start(); err != nil {
		return c.session, err
	}
	c.armLocked()
	c.logger.Info("session started", "entity", c.session.SelectedEntityID, "seconds", c.session.SecondsRemaining)
	return c.session, nil
}

// Stop ends a running session as a manual completion. It does nothing
// when the session is not running.
func (c *Controller) Stop(ctx context.Context) (*domain.Harvest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.IsActive {
		return nil, nil
	}
	return c.completeLocked(ctx, domain.ReasonManual)
}

func (c *Controller) Toggle(ctx context.Context) (*domain.Harvest, error) {
	c.mu.Lock()
	running := c.session.IsActive
	c.mu.Unlock()
	if running {
		return c.Stop(ctx)
	}
	_, err := c.Start()
	return nil, err
}

// Tick advances a running session by one second. Reaching zero harvests.
func (c *Controller) Tick(ctx context.Context) (*domain.Harvest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickLocked(ctx)
}

func (c *Controller) tickLocked(ctx context.Context) (*domain.Harvest, error) {
	if !c.session.IsActive {
		return nil, nil
	}
	finished := c.session.Tick()
	c.emitLocked(domain.Event{
		Kind:      domain.EventTick,
		Remaining: c.session.SecondsRemaining,
		Stage:     c.opts.Stages.Stage(c.session.Fraction()),
	})
	if !finished {
		return nil, nil
	}
	return c.completeLocked(ctx, domain.ReasonNatural)
}

func (c *Controller) Snapshot(ctx context.Context) Snapshot {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	snap := Snapshot{
		State:    session.State(),
		Session:  session,
		Fraction: session.Fraction(),
		Stage:    c.opts.Stages.Stage(session.Fraction()),
	}
	if id, ok, err := c.schedule.CurrentBlock(ctx); err == nil {
		snap.BlockID, snap.HasBlock = id, ok
	}
	return snap
}

// Subscribe registers an observer. Events are dropped for a subscriber
// whose buffer is full; the state machine never waits on observers.
func (c *Controller) Subscribe(buffer int) (<-chan domain.Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan domain.Event, buffer)
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = ch
	c.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

// Close cancels any running ticker without harvesting.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

func (c *Controller) completeLocked(ctx context.Context, reason domain.CompletionReason) (*domain.Harvest, error) {
	c.cancelLocked()
	entityID := c.session.SelectedEntityID
	if entityID == "" {
		c.resetLocked()
		return nil, nil
	}

	completedAt := c.clock.Now()
	harvest := &domain.Harvest{EntityID: entityID, Reason: reason, BlockID: -1}
	err := c.plantAndMark(ctx, entityID, completedAt, harvest)
	if err != nil {
		c.logger.Error("harvest", "entity", entityID, "reason", string(reason), "error", err)
	} else {
		c.logger.Info("harvest", "entity", entityID, "type", harvest.EntityType, "reason", string(reason), "block", harvest.BlockID)
	}

	if harvest.ItemID == "" {
		c.resetLocked()
		return nil, err
	}
	c.emitLocked(domain.Event{Kind: domain.EventHarvested, Remaining: c.session.SecondsRemaining, Harvest: harvest})
	c.resetLocked()
	return harvest, err
}

// plantAndMark plants the entity, then marks the current block. The block is
// left alone when planting fails.
func (c *Controller) plantAndMark(ctx context.Context, entityID string, completedAt time.Time, harvest *domain.Harvest) error {
	planted, err := c.garden.Plant(ctx, entityID, completedAt)
	if err != nil {
		return err
	}
	harvest.ItemID = planted.ItemID
	harvest.EntityType = planted.EntityType
	harvest.CompletedAt = planted.CompletedAt

	blockID, ok, err := c.schedule.CurrentBlock(ctx)
	if err != nil {
		return err
	}
	harvest.BlockID = blockID
	if !ok {
		c.logger.Debug("no block to mark for harvest", "block", blockID)
		return nil
	}
	marked, err := c.schedule.CompleteBlock(ctx, blockID, domain.CompletionScore)
	harvest.BlockMarked = marked
	return err
}

func (c *Controller) resetLocked() {
	c.session.Reset()
	c.emitLocked(domain.Event{Kind: domain.EventReset, Remaining: c.session.SecondsRemaining})
}

func (c *Controller) armLocked() {
	c.cancelLocked()
	c.generation++
	gen := c.generation
	ticker := c.ticks.NewTicker(c.opts.TickInterval)
	done := make(chan struct{})
	c.ticker, c.done = ticker, done
	c.logger.Debug("ticker armed", "generation", gen)
	go c.run(gen, ticker, done)
}

func (c *Controller) cancelLocked() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.done)
	c.ticker, c.done = nil, nil
	c.generation++
	c.logger.Debug("ticker cancelled", "generation", c.generation)
}

func (c *Controller) run(gen uint64, ticker clock.Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			c.mu.Lock()
			if c.generation != gen {
				c.mu.Unlock()
				return
			}
			_, _ = c.tickLocked(context.Background())
			c.mu.Unlock()
		}
	}
}

func (c *Controller) emitLocked(event domain.Event) {
	for _, ch := range c.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
