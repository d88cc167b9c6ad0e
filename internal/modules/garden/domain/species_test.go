package domain_test

import (
	"testing"
	"time"

	"blockgarden/internal/modules/garden/domain"
)

func TestClassifyUsesClosedAnimalSet(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.EntityType{
		"pine":    domain.EntityPlant,
		"pumpkin": domain.EntityPlant,
		"cat":     domain.EntityAnimal,
		"rabbit":  domain.EntityAnimal,
		"chicken": domain.EntityAnimal,
		"cow":     domain.EntityAnimal,
		"dragon":  domain.EntityPlant,
		"":        domain.EntityPlant,
	}
	for id, want := range cases {
		if got := domain.Classify(id); got != want {
			t.Fatalf("classify %q: got %s want %s", id, got, want)
		}
	}
}

func TestCatalogAgreesWithClassify(t *testing.T) {
	t.Parallel()
	for _, s := range domain.Catalog() {
		if domain.Classify(s.ID) != s.Type {
			t.Fatalf("catalog entry %s is %s but classifies as %s", s.ID, s.Type, domain.Classify(s.ID))
		}
	}
	if len(domain.SpeciesOf(domain.EntityPlant)) != 4 || len(domain.SpeciesOf(domain.EntityAnimal)) != 7 {
		t.Fatalf("unexpected catalog split")
	}
	if _, ok := domain.Lookup("bird"); !ok {
		t.Fatalf("expected bird in catalog")
	}
}

func TestHarvestBackdatesPlantedAt(t *testing.T) {
	t.Parallel()
	completed := time.UnixMilli(1_760_000_000_000)
	item := domain.Harvest("item-1", "cow", completed, 90*time.Minute)
	if item.Type != domain.EntityAnimal {
		t.Fatalf("cow must be an animal")
	}
	if item.CompletedAt != 1_760_000_000_000 || item.PlantedAt != 1_760_000_000_000-5_400_000 {
		t.Fatalf("unexpected timestamps %d..%d", item.PlantedAt, item.CompletedAt)
	}
	if item.Name != "cow" || item.EntityID != "cow" || item.ID != "item-1" {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestCountIncludesZeroesAndUnknownIDs(t *testing.T) {
	t.Parallel()
	history := []domain.GardenItem{
		{EntityID: "pine", Type: domain.EntityPlant},
		{EntityID: "pine", Type: domain.EntityPlant},
		{EntityID: "moss", Type: domain.EntityPlant},
		{EntityID: "cat", Type: domain.EntityAnimal},
	}
	plants := domain.Count(history, domain.EntityPlant)
	if len(plants) != 5 {
		t.Fatalf("expected 4 catalog plants plus moss, got %d", len(plants))
	}
	if plants[0].Species.ID != "pine" || plants[0].Quantity != 2 || plants[1].Quantity != 0 {
		t.Fatalf("unexpected counts %+v", plants)
	}
	if plants[4].Species.ID != "moss" || plants[4].Quantity != 1 {
		t.Fatalf("unknown species must be appended, got %+v", plants[4])
	}
	if domain.EntityAnimal.Collection() != "pasture" || domain.EntityPlant.Collection() != "forest" {
		t.Fatalf("unexpected collection names")
	}
}

func TestOnDayFiltersByLocalDate(t *testing.T) {
	t.Parallel()
	day := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	history := []domain.GardenItem{
		{ID: "a", CompletedAt: time.Date(2026, 5, 1, 0, 5, 0, 0, time.UTC).UnixMilli()},
		{ID: "b", CompletedAt: time.Date(2026, 4, 30, 23, 55, 0, 0, time.UTC).UnixMilli()},
		{ID: "c", CompletedAt: time.Date(2026, 5, 1, 23, 59, 0, 0, time.UTC).UnixMilli()},
	}
	got := domain.OnDay(history, day)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected filter result %+v", got)
	}
}
