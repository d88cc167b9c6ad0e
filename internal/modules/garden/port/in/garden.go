package in

import (
	"context"

	"blockgarden/internal/modules/garden/dto"
)

type Usecase interface {
	History(ctx context.Context) ([]dto.ItemOutput, error)
	Plant(ctx context.Context, input dto.PlantInput) (dto.ItemOutput, error)
	Collection(ctx context.Context, entityType string) (dto.CollectionOutput, error)
	Stats(ctx context.Context) (dto.StatsOutput, error)
	Species(ctx context.Context, entityType string) ([]dto.SpeciesOutput, error)
	Lookup(ctx context.Context, entityID string) (dto.SpeciesOutput, error)
}
