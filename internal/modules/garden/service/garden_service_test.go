package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	gardenout "blockgarden/internal/modules/garden/adapter/out"
	"blockgarden/internal/modules/garden/domain"
	"blockgarden/internal/modules/garden/service"
	apperrors "blockgarden/internal/platform/errors"
	"blockgarden/internal/platform/kv"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("item-%d", s.n)
}

// flakyStore fails the next loadErrs Load calls, then behaves like its
// in-memory store.
type flakyStore struct {
	*kv.MemoryStore
	loadErrs int
}

func (f *flakyStore) Load(ctx context.Context, key string) ([]byte, error) {
	if f.loadErrs > 0 {
		f.loadErrs--
		return nil, errors.New("database is locked")
	}
	return f.MemoryStore.Load(ctx, key)
}

type recordingJournal struct {
	days  []time.Time
	items [][]domain.GardenItem
	err   error
}

func (r *recordingJournal) Record(_ context.Context, day time.Time, items []domain.GardenItem) (string, error) {
	r.days = append(r.days, day)
	r.items = append(r.items, items)
	return "journal.md", r.err
}

func TestPlantAppendsAndPersists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	journal := &recordingJournal{}
	completed := time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC)
	svc := service.NewGardenService(fixedClock{now: completed}, &seqID{}, gardenout.NewKVHistoryStore(mem), journal, 90*time.Minute, nil)

	if got := svc.History(ctx); len(got) != 0 {
		t.Fatalf("missing history must be empty, got %d", len(got))
	}
	first, err := svc.Plant(ctx, "pine", completed)
	if err != nil {
		t.Fatalf("plant: %v", err)
	}
	if _, err := svc.Plant(ctx, "cow", completed.Add(time.Hour)); err != nil {
		t.Fatalf("plant: %v", err)
	}
	if first.ID != "item-1" || first.Type != domain.EntityPlant {
		t.Fatalf("unexpected first item %+v", first)
	}

	reloaded := service.NewGardenService(fixedClock{now: completed}, &seqID{}, gardenout.NewKVHistoryStore(mem), nil, 90*time.Minute, nil).History(ctx)
	if len(reloaded) != 2 || reloaded[0].EntityID != "pine" || reloaded[1].EntityID != "cow" {
		t.Fatalf("history must persist in order, got %+v", reloaded)
	}
	if len(journal.items) != 2 || len(journal.items[1]) != 2 {
		t.Fatalf("journal must receive the day's items, got %+v", journal.items)
	}
}

func TestPlantWithoutEntityIsRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	svc := service.NewGardenService(fixedClock{now: time.Now()}, &seqID{}, gardenout.NewKVHistoryStore(mem), nil, 90*time.Minute, nil)
	if _, err := svc.Plant(ctx, "  ", time.Now()); !errors.Is(err, apperrors.ErrNoEntitySelected) {
		t.Fatalf("expected ErrNoEntitySelected, got %v", err)
	}
	if mem.Saves() != 0 || len(svc.History(ctx)) != 0 {
		t.Fatalf("rejected plant must not touch history")
	}
}

func TestJournalFailureDoesNotFailHarvest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	journal := &recordingJournal{err: errors.New("disk full")}
	svc := service.NewGardenService(fixedClock{now: time.Now()}, &seqID{}, gardenout.NewKVHistoryStore(kv.NewMemoryStore()), journal, 90*time.Minute, nil)
	if _, err := svc.Plant(ctx, "flower", time.Time{}); err != nil {
		t.Fatalf("journal errors must be swallowed, got %v", err)
	}
	if len(svc.History(ctx)) != 1 {
		t.Fatalf("harvest must still be stored")
	}
}

func TestCorruptHistoryReadsAsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	_ = mem.Save(ctx, kv.KeyGarden, []byte("oops"))
	svc := service.NewGardenService(fixedClock{now: time.Now()}, &seqID{}, gardenout.NewKVHistoryStore(mem), nil, 90*time.Minute, nil)
	if got := svc.History(ctx); len(got) != 0 {
		t.Fatalf("expected empty history, got %d", len(got))
	}
	if _, err := svc.Plant(ctx, "carrot", time.Now()); err != nil {
		t.Fatalf("plant over corrupt history: %v", err)
	}
	if got := svc.History(ctx); len(got) != 1 {
		t.Fatalf("expected history to restart with one item, got %d", len(got))
	}
}

func TestPlantAbortsWhenHistoryCannotBeRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &flakyStore{MemoryStore: kv.NewMemoryStore()}
	journal := &recordingJournal{}
	svc := service.NewGardenService(fixedClock{now: time.Now()}, &seqID{}, gardenout.NewKVHistoryStore(store), journal, 90*time.Minute, nil)
	for _, entity := range []string{"pine", "cow", "cat"} {
		if _, err := svc.Plant(ctx, entity, time.Now()); err != nil {
			t.Fatalf("plant %s: %v", entity, err)
		}
	}
	saves := store.Saves()

	store.loadErrs = 1
	item, err := svc.Plant(ctx, "flower", time.Now())
	if err == nil || item.ID != "" {
		t.Fatalf("expected load failure to abort the harvest, got %+v, %v", item, err)
	}
	if store.Saves() != saves || len(journal.items) != 3 {
		t.Fatalf("aborted harvest must write nothing")
	}
	if got := svc.History(ctx); len(got) != 3 {
		t.Fatalf("stored history must survive, got %d items", len(got))
	}
}
