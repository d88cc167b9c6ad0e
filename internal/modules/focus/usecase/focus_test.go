package usecase_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	focusout "blockgarden/internal/modules/focus/adapter/out"
	focusin "blockgarden/internal/modules/focus/port/in"
	"blockgarden/internal/modules/focus/domain"
	"blockgarden/internal/modules/focus/service"
	"blockgarden/internal/modules/focus/usecase"
	gardenout "blockgarden/internal/modules/garden/adapter/out"
	gardenin "blockgarden/internal/modules/garden/port/in"
	gardenservice "blockgarden/internal/modules/garden/service"
	gardenusecase "blockgarden/internal/modules/garden/usecase"
	scheduleout "blockgarden/internal/modules/schedule/adapter/out"
	schedulein "blockgarden/internal/modules/schedule/port/in"
	scheduleservice "blockgarden/internal/modules/schedule/service"
	scheduleusecase "blockgarden/internal/modules/schedule/usecase"
	"blockgarden/internal/platform/clock"
	apperrors "blockgarden/internal/platform/errors"
	"blockgarden/internal/platform/kv"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type idleTicks struct{}

type idleTicker struct{ ch chan time.Time }

func (t idleTicker) C() <-chan time.Time { return t.ch }
func (idleTicker) Stop()                 {}

func (idleTicks) NewTicker(time.Duration) clock.Ticker { return idleTicker{ch: make(chan time.Time)} }

type fakeID struct{ n int }

func (f *fakeID) New() string {
	f.n++
	return "garden-item-" + strconv.Itoa(f.n)
}

type app struct {
	focus    focusin.Usecase
	schedule schedulein.Usecase
	garden   gardenin.Usecase
	store    *kv.MemoryStore
}

func newApp(t *testing.T, now time.Time, stages domain.StageTable) app {
	t.Helper()
	store := kv.NewMemoryStore()
	clk := fixedClock{now: now}
	schedule := scheduleusecase.NewInteractor(scheduleservice.NewSchedulerService(clk, scheduleout.NewKVBlockStore(store), scheduleservice.Options{}, nil))
	garden := gardenusecase.NewInteractor(gardenservice.NewGardenService(clk, &fakeID{}, gardenout.NewKVHistoryStore(store), nil, 90*time.Minute, nil))
	ctrl := service.NewController(clk, idleTicks{}, focusout.NewGardenAdapter(garden), focusout.NewScheduleAdapter(schedule), service.Options{
		SessionDuration: 90 * time.Minute,
		Stages:          stages,
	}, nil)
	t.Cleanup(ctrl.Close)
	return app{focus: usecase.NewInteractor(ctrl), schedule: schedule, garden: garden, store: store}
}

func TestEndToEndPineSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := newApp(t, time.Date(2026, 3, 4, 9, 20, 0, 0, time.Local), domain.FrontLoaded)

	history, _ := a.garden.History(ctx)
	if len(history) != 0 {
		t.Fatalf("expected empty garden")
	}
	snap, _ := a.focus.Snapshot(ctx)
	if snap.State != "idle" {
		t.Fatalf("expected idle, got %s", snap.State)
	}

	snap, err := a.focus.SelectEntity(ctx, "pine")
	if err != nil || snap.State != "armed" {
		t.Fatalf("expected armed, got %s (%v)", snap.State, err)
	}
	snap, err = a.focus.Start(ctx)
	if err != nil || snap.State != "running" || snap.SecondsRemaining != 5400 {
		t.Fatalf("expected running with 5400s, got %+v (%v)", snap, err)
	}

	lastStage := 0
	var harvested int
	for i := 0; i < 5400; i++ {
		out, err := a.focus.Tick(ctx)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if out.Harvest != nil {
			harvested++
			continue
		}
		if out.Snapshot.Stage < lastStage {
			t.Fatalf("stage regressed at tick %d", i)
		}
		lastStage = out.Snapshot.Stage
	}
	if harvested != 1 {
		t.Fatalf("expected exactly one harvest, got %d", harvested)
	}

	snap, _ = a.focus.Snapshot(ctx)
	if snap.State != "idle" || snap.SecondsRemaining != 5400 || snap.SelectedEntityID != "" {
		t.Fatalf("session must return to idle, got %+v", snap)
	}
	history, _ = a.garden.History(ctx)
	if len(history) != 1 || history[0].EntityID != "pine" || history[0].Type != "PLANT" {
		t.Fatalf("unexpected history %+v", history)
	}
	day, _ := a.schedule.Day(ctx)
	block := day.Blocks[0]
	if block.Status != "completed" || block.FocusScore == nil || *block.FocusScore != 100 {
		t.Fatalf("originating block not completed: %+v", block)
	}
	for _, b := range day.Blocks[1:] {
		if b.Status != "pending" {
			t.Fatalf("block %d must stay pending", b.ID)
		}
	}
}

func TestCowHarvestTimestamps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	completion := time.UnixMilli(1_772_000_000_000)
	a := newApp(t, completion, domain.Quartile)

	_, _ = a.focus.SelectEntity(ctx, "cow")
	_, _ = a.focus.Start(ctx)
	out, err := a.focus.Stop(ctx)
	if err != nil || out.Harvest == nil {
		t.Fatalf("stop: %+v (%v)", out, err)
	}
	if out.Harvest.EntityType != "ANIMAL" || out.Harvest.Reason != "manual" {
		t.Fatalf("unexpected harvest %+v", out.Harvest)
	}
	history, _ := a.garden.History(ctx)
	item := history[0]
	if item.CompletedAt.UnixMilli() != 1_772_000_000_000 || item.PlantedAt.UnixMilli() != 1_772_000_000_000-5_400_000 {
		t.Fatalf("unexpected timestamps planted=%d completed=%d", item.PlantedAt.UnixMilli(), item.CompletedAt.UnixMilli())
	}
}

func TestHarvestWithoutEntityLeavesHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := newApp(t, time.Now(), domain.FrontLoaded)
	out, err := a.focus.Stop(ctx)
	if err != nil || out.Harvest != nil {
		t.Fatalf("stop while idle must be a no-op")
	}
	if _, err := a.focus.Start(ctx); !errors.Is(err, apperrors.ErrNoEntitySelected) {
		t.Fatalf("expected ErrNoEntitySelected, got %v", err)
	}
	history, _ := a.garden.History(ctx)
	if len(history) != 0 {
		t.Fatalf("history must stay empty")
	}
}

func TestHarvestMarksSelectedBlock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := newApp(t, time.Date(2026, 3, 4, 9, 20, 0, 0, time.Local), domain.FrontLoaded)
	if _, err := a.focus.SelectBlock(ctx, 6); err != nil {
		t.Fatalf("select block: %v", err)
	}
	_, _ = a.focus.SelectEntity(ctx, "rabbit")
	_, _ = a.focus.Start(ctx)
	out, _ := a.focus.Stop(ctx)
	if out.Harvest == nil || out.Harvest.BlockID != 6 || !out.Harvest.BlockMarked {
		t.Fatalf("expected block 6 marked, got %+v", out.Harvest)
	}
	day, _ := a.schedule.Day(ctx)
	if day.Blocks[6].Status != "completed" || day.Blocks[0].Status != "pending" {
		t.Fatalf("only block 6 may complete")
	}
}

func TestDanglingBlockStillPlants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := newApp(t, time.Now(), domain.FrontLoaded)
	_, _ = a.focus.SelectBlock(ctx, 40)
	_, _ = a.focus.SelectEntity(ctx, "bird")
	_, _ = a.focus.Start(ctx)
	out, err := a.focus.Stop(ctx)
	if err != nil || out.Harvest == nil || out.Harvest.BlockMarked {
		t.Fatalf("expected unmarked harvest, got %+v (%v)", out.Harvest, err)
	}
	history, _ := a.garden.History(ctx)
	if len(history) != 1 {
		t.Fatalf("bird must still be planted")
	}
}

func TestSubscribeRelaysEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := newApp(t, time.Now(), domain.FrontLoaded)
	events, cancel := a.focus.Subscribe(4)
	defer cancel()
	_, _ = a.focus.SelectEntity(ctx, "pine")
	_, _ = a.focus.Start(ctx)
	_, _ = a.focus.Tick(ctx)
	select {
	case ev := <-events:
		if ev.Kind != "tick" || ev.Remaining != 5399 {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event relayed")
	}
}

func TestRepeatedManualHarvestsKeepDistinctItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := newApp(t, time.Date(2026, 3, 4, 9, 20, 0, 0, time.Local), domain.FrontLoaded)

	for i := 0; i < 12; i++ {
		_, _ = a.focus.SelectEntity(ctx, "carrot")
		_, _ = a.focus.Start(ctx)
		if out, err := a.focus.Stop(ctx); err != nil || out.Harvest == nil {
			t.Fatalf("harvest %d: %+v (%v)", i, out, err)
		}
	}
	history, _ := a.garden.History(ctx)
	if len(history) != 12 {
		t.Fatalf("expected 12 items, got %d", len(history))
	}
	seen := map[string]bool{}
	for _, item := range history {
		if seen[item.ID] {
			t.Fatalf("duplicate item id %s", item.ID)
		}
		seen[item.ID] = true
	}
	if history[11].ID != "garden-item-12" {
		t.Fatalf("unexpected last id %s", history[11].ID)
	}
}
