package usecase

import (
	"context"
	"fmt"

	"blockgarden/internal/modules/schedule/domain"
	scheduledto "blockgarden/internal/modules/schedule/dto"
	schedulein "blockgarden/internal/modules/schedule/port/in"
	"blockgarden/internal/modules/schedule/service"
	apperrors "blockgarden/internal/platform/errors"
)

type Interactor struct {
	svc *service.SchedulerService
}

func NewInteractor(svc *service.SchedulerService) schedulein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Load(ctx context.Context) (scheduledto.DayOutput, error) {
	_, regenerated := i.svc.Load(ctx)
	out := i.day(ctx)
	out.Regenerated = regenerated
	return out, nil
}

func (i *Interactor) Day(ctx context.Context) (scheduledto.DayOutput, error) {
	return i.day(ctx), nil
}

func (i *Interactor) Current(ctx context.Context) (scheduledto.BlockOutput, bool, error) {
	block, current, ok := i.svc.Current(ctx)
	if !ok {
		return scheduledto.BlockOutput{ID: current}, false, nil
	}
	return toBlockOutput(block, current), true, nil
}

func (i *Interactor) UpdateBlock(ctx context.Context, input scheduledto.UpdateBlockInput) (scheduledto.UpdateBlockOutput, error) {
	patch := domain.Patch{Activity: input.Activity, FocusScore: input.FocusScore}
	if input.Status != nil {
		status := domain.Status(*input.Status)
		patch.Status = &status
	}
	if patch.Empty() {
		return scheduledto.UpdateBlockOutput{}, fmt.Errorf("%w: nothing to update", apperrors.ErrInvalidInput)
	}
	_, applied, err := i.svc.Update(ctx, input.ID, patch)
	if err != nil {
		return scheduledto.UpdateBlockOutput{}, err
	}
	return scheduledto.UpdateBlockOutput{Applied: applied, Day: i.day(ctx)}, nil
}

func (i *Interactor) SelectBlock(ctx context.Context, id int) (scheduledto.DayOutput, error) {
	i.svc.Select(ctx, id)
	return i.day(ctx), nil
}

func (i *Interactor) Regenerate(ctx context.Context) (scheduledto.DayOutput, error) {
	i.svc.Regenerate(ctx)
	out := i.day(ctx)
	out.Regenerated = true
	return out, nil
}

func (i *Interactor) day(ctx context.Context) scheduledto.DayOutput {
	blocks, current := i.svc.Blocks(ctx)
	out := scheduledto.DayOutput{
		Blocks:       make([]scheduledto.BlockOutput, 0, len(blocks)),
		CurrentIndex: current,
		Grid:         i.svc.Grid().Name(),
	}
	for _, b := range blocks {
		out.Blocks = append(out.Blocks, toBlockOutput(b, current))
	}
	return out
}

func toBlockOutput(b domain.TimeBlock, current int) scheduledto.BlockOutput {
	return scheduledto.BlockOutput{
		ID:         b.ID,
		StartTime:  b.StartTime.String(),
		EndTime:    b.EndTime.String(),
		Activity:   b.Activity,
		IsCurrent:  b.IsCurrent,
		Selected:   b.ID == current,
		Status:     string(b.Status),
		FocusScore: b.FocusScore,
	}
}
