package in

import (
	"context"

	scheduledto "blockgarden/internal/modules/schedule/dto"
	schedulein "blockgarden/internal/modules/schedule/port/in"
)

type CLIHandler struct {
	usecase schedulein.Usecase
}

func NewCLIHandler(usecase schedulein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Load(ctx context.Context) (scheduledto.DayOutput, error) {
	return h.usecase.Load(ctx)
}

func (h CLIHandler) Day(ctx context.Context) (scheduledto.DayOutput, error) {
	return h.usecase.Day(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (scheduledto.BlockOutput, bool, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) SetActivity(ctx context.Context, id int, activity string) (scheduledto.UpdateBlockOutput, error) {
	return h.usecase.UpdateBlock(ctx, scheduledto.UpdateBlockInput{ID: id, Activity: &activity})
}

func (h CLIHandler) SetStatus(ctx context.Context, id int, status string) (scheduledto.UpdateBlockOutput, error) {
	return h.usecase.UpdateBlock(ctx, scheduledto.UpdateBlockInput{ID: id, Status: &status})
}

func (h CLIHandler) Update(ctx context.Context, input scheduledto.UpdateBlockInput) (scheduledto.UpdateBlockOutput, error) {
	return h.usecase.UpdateBlock(ctx, input)
}

func (h CLIHandler) Select(ctx context.Context, id int) (scheduledto.DayOutput, error) {
	return h.usecase.SelectBlock(ctx, id)
}

func (h CLIHandler) Regenerate(ctx context.Context) (scheduledto.DayOutput, error) {
	return h.usecase.Regenerate(ctx)
}
