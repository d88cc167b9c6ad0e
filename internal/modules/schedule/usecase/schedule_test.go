package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	scheduleout "blockgarden/internal/modules/schedule/adapter/out"
	"blockgarden/internal/modules/schedule/domain"
	scheduledto "blockgarden/internal/modules/schedule/dto"
	"blockgarden/internal/modules/schedule/service"
	"blockgarden/internal/modules/schedule/usecase"
	apperrors "blockgarden/internal/platform/errors"
	"blockgarden/internal/platform/kv"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func TestInteractorRoundTripOverFileStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kv.NewFileStore(filepath.Join(t.TempDir(), "state"))
	clk := fixedClock{now: time.Date(2026, 3, 4, 16, 45, 0, 0, time.Local)}
	svc := service.NewSchedulerService(clk, scheduleout.NewKVBlockStore(store), service.Options{}, nil)
	uc := usecase.NewInteractor(svc)

	day, err := uc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !day.Regenerated || day.Blocks[0].StartTime != "16:30" || day.Blocks[0].EndTime != "18:00" || day.Grid != "current-slot" {
		t.Fatalf("unexpected day: %+v", day.Blocks[0])
	}
	if !day.Blocks[0].Selected || day.CurrentIndex != 0 {
		t.Fatalf("block 0 must be selected after load")
	}

	activity := "review PRs"
	out, err := uc.UpdateBlock(ctx, scheduledto.UpdateBlockInput{ID: 0, Activity: &activity})
	if err != nil || !out.Applied || out.Day.Blocks[0].Activity != activity {
		t.Fatalf("update: %+v err=%v", out, err)
	}

	fresh := usecase.NewInteractor(service.NewSchedulerService(clk, scheduleout.NewKVBlockStore(store), service.Options{}, nil))
	reloaded, err := fresh.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Regenerated || reloaded.Blocks[0].Activity != activity {
		t.Fatalf("expected persisted activity, got %+v", reloaded.Blocks[0])
	}
}

func TestInteractorRejectsEmptyUpdate(t *testing.T) {
	t.Parallel()
	svc := service.NewSchedulerService(fixedClock{now: time.Now()}, scheduleout.NewKVBlockStore(kv.NewMemoryStore()), service.Options{}, nil)
	uc := usecase.NewInteractor(svc)
	_, err := uc.UpdateBlock(context.Background(), scheduledto.UpdateBlockInput{ID: 0})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestInteractorCurrentReportsDangling(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := service.NewSchedulerService(fixedClock{now: time.Now()}, scheduleout.NewKVBlockStore(kv.NewMemoryStore()), service.Options{
		Grid:   domain.DayStartGrid{BlockMinutes: 90, Start: 360},
		Layout: domain.DefaultLayout(),
	}, nil)
	uc := usecase.NewInteractor(svc)
	if _, err := uc.SelectBlock(ctx, -1); err != nil {
		t.Fatalf("select: %v", err)
	}
	block, ok, err := uc.Current(ctx)
	if err != nil || ok || block.ID != -1 {
		t.Fatalf("expected dangling current, got %+v ok=%v err=%v", block, ok, err)
	}
}
