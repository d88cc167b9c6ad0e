package out

import (
	"context"
	"time"

	gardendto "blockgarden/internal/modules/garden/dto"
	gardenin "blockgarden/internal/modules/garden/port/in"
	focusout "blockgarden/internal/modules/focus/port/out"
)

type GardenAdapter struct {
	garden gardenin.Usecase
}

func NewGardenAdapter(garden gardenin.Usecase) focusout.Garden {
	return &GardenAdapter{garden: garden}
}

func (a *GardenAdapter) Plant(ctx context.Context, entityID string, completedAt time.Time) (focusout.Planted, error) {
	item, err := a.garden.Plant(ctx, gardendto.PlantInput{EntityID: entityID, CompletedAt: completedAt})
	if err != nil {
		return focusout.Planted{}, err
	}
	return focusout.Planted{
		ItemID:      item.ID,
		EntityID:    item.EntityID,
		EntityType:  item.Type,
		CompletedAt: item.CompletedAt.UnixMilli(),
	}, nil
}
