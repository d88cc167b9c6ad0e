package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blockgarden/internal/modules/garden/domain"
	gardendto "blockgarden/internal/modules/garden/dto"
	gardenin "blockgarden/internal/modules/garden/port/in"
	"blockgarden/internal/modules/garden/service"
	apperrors "blockgarden/internal/platform/errors"
)

type Interactor struct {
	svc *service.GardenService
}

func NewInteractor(svc *service.GardenService) gardenin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) History(ctx context.Context) ([]gardendto.ItemOutput, error) {
	history := i.svc.History(ctx)
	out := make([]gardendto.ItemOutput, 0, len(history))
	for _, item := range history {
		out = append(out, toItemOutput(item))
	}
	return out, nil
}

func (i *Interactor) Plant(ctx context.Context, input gardendto.PlantInput) (gardendto.ItemOutput, error) {
	item, err := i.svc.Plant(ctx, input.EntityID, input.CompletedAt)
	if err != nil {
		return gardendto.ItemOutput{}, err
	}
	return toItemOutput(item), nil
}

func (i *Interactor) Collection(ctx context.Context, entityType string) (gardendto.CollectionOutput, error) {
	t, err := parseType(entityType)
	if err != nil {
		return gardendto.CollectionOutput{}, err
	}
	out := gardendto.CollectionOutput{Type: string(t), Name: t.Collection()}
	for _, c := range domain.Count(i.svc.History(ctx), t) {
		out.Counts = append(out.Counts, gardendto.CountOutput{Species: toSpeciesOutput(c.Species), Quantity: c.Quantity})
		out.Total += c.Quantity
	}
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context) (gardendto.StatsOutput, error) {
	history := i.svc.History(ctx)
	out := gardendto.StatsOutput{
		Harvests: len(history),
		Today:    len(domain.OnDay(history, i.svc.Now())),
	}
	for _, item := range history {
		if item.Type == domain.EntityAnimal {
			out.Animals++
		} else {
			out.Plants++
		}
	}
	return out, nil
}

func (i *Interactor) Species(_ context.Context, entityType string) ([]gardendto.SpeciesOutput, error) {
	var species []domain.Species
	if strings.TrimSpace(entityType) == "" {
		species = domain.Catalog()
	} else {
		t, err := parseType(entityType)
		if err != nil {
			return nil, err
		}
		species = domain.SpeciesOf(t)
	}
	out := make([]gardendto.SpeciesOutput, 0, len(species))
	for _, s := range species {
		out = append(out, toSpeciesOutput(s))
	}
	return out, nil
}

func (i *Interactor) Lookup(_ context.Context, entityID string) (gardendto.SpeciesOutput, error) {
	s, ok := domain.Lookup(entityID)
	if !ok {
		return gardendto.SpeciesOutput{}, fmt.Errorf("%w: species %q", apperrors.ErrNotFound, entityID)
	}
	return toSpeciesOutput(s), nil
}

func parseType(v string) (domain.EntityType, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "plant", "plants", "forest":
		return domain.EntityPlant, nil
	case "animal", "animals", "pasture":
		return domain.EntityAnimal, nil
	default:
		return "", fmt.Errorf("%w: entity type %q", apperrors.ErrInvalidInput, v)
	}
}

func toItemOutput(item domain.GardenItem) gardendto.ItemOutput {
	return gardendto.ItemOutput{
		ID:          item.ID,
		EntityID:    item.EntityID,
		Type:        string(item.Type),
		Name:        item.Name,
		PlantedAt:   timeFromMillis(item.PlantedAt),
		CompletedAt: item.CompletedTime(),
	}
}

func toSpeciesOutput(s domain.Species) gardendto.SpeciesOutput {
	return gardendto.SpeciesOutput{ID: s.ID, Type: string(s.Type), Label: s.Label, Selectable: s.Selectable}
}

func timeFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
