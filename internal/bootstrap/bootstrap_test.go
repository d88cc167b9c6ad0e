package bootstrap_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"blockgarden/internal/bootstrap"
	"blockgarden/internal/platform/clock"
	"blockgarden/internal/platform/config"
	"blockgarden/internal/platform/kv"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type idleTicker struct{ c chan time.Time }

func (t idleTicker) C() <-chan time.Time { return t.c }
func (t idleTicker) Stop()               {}

type idleTicks struct{}

func (idleTicks) NewTicker(time.Duration) clock.Ticker { return idleTicker{c: make(chan time.Time)} }

func newApp(t *testing.T, dir string, store kv.Store) *bootstrap.App {
	t.Helper()
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	app, err := bootstrap.NewWithDeps(cfg, bootstrap.Deps{
		Clock:     fixedClock{now: time.Date(2026, 3, 2, 10, 15, 0, 0, time.Local)},
		Ticks:     idleTicks{},
		Store:     store,
		LogOutput: io.Discard,
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestManualStopHarvestsAndCompletesCurrentBlock(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	app := newApp(t, dir, kv.NewMemoryStore())
	ctx := context.Background()

	day, err := app.ScheduleCLI.Load(ctx)
	if err != nil {
		t.Fatalf("load day: %v", err)
	}
	if len(day.Blocks) != 16 || day.Blocks[0].StartTime != "09:00" {
		t.Fatalf("unexpected day: %d blocks starting %s", len(day.Blocks), day.Blocks[0].StartTime)
	}
	if _, err := app.FocusCLI.SelectEntity(ctx, "cat"); err != nil {
		t.Fatalf("select entity: %v", err)
	}
	if _, err := app.FocusCLI.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	out, err := app.FocusCLI.Stop(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if out.Harvest == nil || out.Harvest.EntityType != "ANIMAL" || !out.Harvest.BlockMarked || out.Harvest.BlockID != 0 {
		t.Fatalf("unexpected harvest %+v", out.Harvest)
	}
	stats, err := app.GardenCLI.Stats(ctx)
	if err != nil || stats.Animals != 1 {
		t.Fatalf("expected one animal, got %+v (%v)", stats, err)
	}
	current, ok, err := app.ScheduleCLI.Current(ctx)
	if err != nil || !ok || current.Status != "completed" || current.FocusScore == nil || *current.FocusScore != 100 {
		t.Fatalf("current block not completed: %+v ok=%v err=%v", current, ok, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "garden", "2026-03-02.md")); err != nil {
		t.Fatalf("expected journal entry: %v", err)
	}
}

func TestDefaultBackendPersistsAcrossRestarts(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()

	first := newApp(t, dir, nil)
	if _, err := first.ScheduleCLI.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := first.ScheduleCLI.SetActivity(ctx, 3, "write report"); err != nil {
		t.Fatalf("set activity: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(first.Config.DBPath); err != nil {
		t.Fatalf("expected sqlite database: %v", err)
	}

	second := newApp(t, dir, nil)
	day, err := second.ScheduleCLI.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if day.Regenerated || day.Blocks[3].Activity != "write report" {
		t.Fatalf("activity not persisted: regenerated=%v block=%+v", day.Regenerated, day.Blocks[3])
	}
}

func TestFileBackendAndDayStartGridFromConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, _ := config.New(dir)
	settings := config.DefaultSettings()
	settings.Storage.Backend = config.BackendFile
	settings.Schedule.Grid = config.GridDayStart
	settings.Schedule.DayStart = "06:00"
	if err := config.Write(cfg, settings); err != nil {
		t.Fatalf("write config: %v", err)
	}

	app := newApp(t, dir, nil)
	day, err := app.ScheduleCLI.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if day.Grid != config.GridDayStart || day.Blocks[0].StartTime != "06:00" {
		t.Fatalf("unexpected grid %s starting %s", day.Grid, day.Blocks[0].StartTime)
	}
	// 10:15 falls in the 09:00-10:30 slot, block 2 from a 06:00 start.
	if day.CurrentIndex != 2 {
		t.Fatalf("expected current index 2, got %d", day.CurrentIndex)
	}
	if _, err := os.Stat(filepath.Join(cfg.FileKVDir, kv.KeyBlocks+".json")); err != nil {
		t.Fatalf("expected file store entry: %v", err)
	}
}
