package out

import (
	"context"

	focusout "blockgarden/internal/modules/focus/port/out"
	scheduledto "blockgarden/internal/modules/schedule/dto"
	schedulein "blockgarden/internal/modules/schedule/port/in"
)

type ScheduleAdapter struct {
	schedule schedulein.Usecase
}

func NewScheduleAdapter(schedule schedulein.Usecase) focusout.Schedule {
	return &ScheduleAdapter{schedule: schedule}
}

func (a *ScheduleAdapter) CurrentBlock(ctx context.Context) (int, bool, error) {
	block, ok, err := a.schedule.Current(ctx)
	if err != nil {
		return 0, false, err
	}
	return block.ID, ok, nil
}

func (a *ScheduleAdapter) SelectBlock(ctx context.Context, id int) error {
	_, err := a.schedule.SelectBlock(ctx, id)
	return err
}

func (a *ScheduleAdapter) CompleteBlock(ctx context.Context, id int, score int) (bool, error) {
	status := "completed"
	out, err := a.schedule.UpdateBlock(ctx, scheduledto.UpdateBlockInput{ID: id, Status: &status, FocusScore: &score})
	if err != nil {
		return false, err
	}
	return out.Applied, nil
}
