package in

import (
	"context"

	"blockgarden/internal/modules/focus/dto"
)

type Usecase interface {
	SelectEntity(ctx context.Context, entityID string) (dto.SnapshotOutput, error)
	SelectBlock(ctx context.Context, blockID int) (dto.SnapshotOutput, error)
	Start(ctx context.Context) (dto.SnapshotOutput, error)
	Stop(ctx context.Context) (dto.TransitionOutput, error)
	Toggle(ctx context.Context) (dto.TransitionOutput, error)
	Tick(ctx context.Context) (dto.TransitionOutput, error)
	Snapshot(ctx context.Context) (dto.SnapshotOutput, error)
	Subscribe(buffer int) (<-chan dto.EventOutput, func())
	Close()
}
