package in

import (
	"context"

	"blockgarden/internal/modules/schedule/dto"
)

type Usecase interface {
	Load(ctx context.Context) (dto.DayOutput, error)
	Day(ctx context.Context) (dto.DayOutput, error)
	Current(ctx context.Context) (dto.BlockOutput, bool, error)
	UpdateBlock(ctx context.Context, input dto.UpdateBlockInput) (dto.UpdateBlockOutput, error)
	SelectBlock(ctx context.Context, id int) (dto.DayOutput, error)
	Regenerate(ctx context.Context) (dto.DayOutput, error)
}
