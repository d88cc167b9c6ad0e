package in

import (
	"context"

	gardendto "blockgarden/internal/modules/garden/dto"
	gardenin "blockgarden/internal/modules/garden/port/in"
)

type CLIHandler struct {
	usecase gardenin.Usecase
}

func NewCLIHandler(usecase gardenin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) History(ctx context.Context) ([]gardendto.ItemOutput, error) {
	return h.usecase.History(ctx)
}

func (h CLIHandler) Collection(ctx context.Context, entityType string) (gardendto.CollectionOutput, error) {
	return h.usecase.Collection(ctx, entityType)
}

func (h CLIHandler) Stats(ctx context.Context) (gardendto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}

func (h CLIHandler) Species(ctx context.Context, entityType string) ([]gardendto.SpeciesOutput, error) {
	return h.usecase.Species(ctx, entityType)
}

func (h CLIHandler) Lookup(ctx context.Context, entityID string) (gardendto.SpeciesOutput, error) {
	return h.usecase.Lookup(ctx, entityID)
}
