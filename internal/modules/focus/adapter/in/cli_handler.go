package in

import (
	"context"

	focusdto "blockgarden/internal/modules/focus/dto"
	focusin "blockgarden/internal/modules/focus/port/in"
)

type CLIHandler struct {
	usecase focusin.Usecase
}

func NewCLIHandler(usecase focusin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) SelectEntity(ctx context.Context, entityID string) (focusdto.SnapshotOutput, error) {
	return h.usecase.SelectEntity(ctx, entityID)
}

func (h CLIHandler) SelectBlock(ctx context.Context, blockID int) (focusdto.SnapshotOutput, error) {
	return h.usecase.SelectBlock(ctx, blockID)
}

func (h CLIHandler) Start(ctx context.Context) (focusdto.SnapshotOutput, error) {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Stop(ctx context.Context) (focusdto.TransitionOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Toggle(ctx context.Context) (focusdto.TransitionOutput, error) {
	return h.usecase.Toggle(ctx)
}

func (h CLIHandler) Snapshot(ctx context.Context) (focusdto.SnapshotOutput, error) {
	return h.usecase.Snapshot(ctx)
}

func (h CLIHandler) Subscribe(buffer int) (<-chan focusdto.EventOutput, func()) {
	return h.usecase.Subscribe(buffer)
}

func (h CLIHandler) Close() {
	h.usecase.Close()
}
