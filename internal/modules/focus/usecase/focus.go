package usecase

import (
	"context"

	"blockgarden/internal/modules/focus/domain"
	focusdto "blockgarden/internal/modules/focus/dto"
	focusin "blockgarden/internal/modules/focus/port/in"
	"blockgarden/internal/modules/focus/service"
)

type Interactor struct {
	ctrl *service.Controller
}

func NewInteractor(ctrl *service.Controller) focusin.Usecase {
	return &Interactor{ctrl: ctrl}
}

func (i *Interactor) SelectEntity(ctx context.Context, entityID string) (focusdto.SnapshotOutput, error) {
	if _, err := i.ctrl.SelectEntity(entityID); err != nil {
		return i.snapshot(ctx), err
	}
	return i.snapshot(ctx), nil
}

func (i *Interactor) SelectBlock(ctx context.Context, blockID int) (focusdto.SnapshotOutput, error) {
	if err := i.ctrl.SelectBlock(ctx, blockID); err != nil {
		return i.snapshot(ctx), err
	}
	return i.snapshot(ctx), nil
}

func (i *Interactor) Start(ctx context.Context) (focusdto.SnapshotOutput, error) {
	if _, err := i.ctrl.Start(); err != nil {
		return i.snapshot(ctx), err
	}
	return i.snapshot(ctx), nil
}

func (i *Interactor) Stop(ctx context.Context) (focusdto.TransitionOutput, error) {
	harvest, err := i.ctrl.Stop(ctx)
	return i.transition(ctx, harvest), err
}

func (i *Interactor) Toggle(ctx context.Context) (focusdto.TransitionOutput, error) {
	harvest, err := i.ctrl.Toggle(ctx)
	return i.transition(ctx, harvest), err
}

func (i *Interactor) Tick(ctx context.Context) (focusdto.TransitionOutput, error) {
	harvest, err := i.ctrl.Tick(ctx)
	return i.transition(ctx, harvest), err
}

func (i *Interactor) Snapshot(ctx context.Context) (focusdto.SnapshotOutput, error) {
	return i.snapshot(ctx), nil
}

// Subscribe relays controller events as DTOs until cancel is called.
func (i *Interactor) Subscribe(buffer int) (<-chan focusdto.EventOutput, func()) {
	if buffer < 1 {
		buffer = 1
	}
	events, cancel := i.ctrl.Subscribe(buffer)
	out := make(chan focusdto.EventOutput, buffer)
	go func() {
		defer close(out)
		for event := range events {
			select {
			case out <- toEventOutput(event):
			default:
			}
		}
	}()
	return out, cancel
}

func (i *Interactor) Close() {
	i.ctrl.Close()
}

func (i *Interactor) transition(ctx context.Context, harvest *domain.Harvest) focusdto.TransitionOutput {
	return focusdto.TransitionOutput{Snapshot: i.snapshot(ctx), Harvest: toHarvestOutput(harvest)}
}

func (i *Interactor) snapshot(ctx context.Context) focusdto.SnapshotOutput {
	snap := i.ctrl.Snapshot(ctx)
	return focusdto.SnapshotOutput{
		State:            string(snap.State),
		SecondsRemaining: snap.Session.SecondsRemaining,
		Duration:         snap.Session.Duration,
		Fraction:         snap.Fraction,
		Stage:            snap.Stage,
		StageName:        domain.StageName(snap.Stage),
		StageTable:       i.ctrl.Stages().Name,
		SelectedEntityID: snap.Session.SelectedEntityID,
		BlockID:          snap.BlockID,
		HasBlock:         snap.HasBlock,
	}
}

func toHarvestOutput(h *domain.Harvest) *focusdto.HarvestOutput {
	if h == nil {
		return nil
	}
	return &focusdto.HarvestOutput{
		ItemID:      h.ItemID,
		EntityID:    h.EntityID,
		EntityType:  h.EntityType,
		CompletedAt: h.CompletedAt,
		BlockID:     h.BlockID,
		BlockMarked: h.BlockMarked,
		Reason:      string(h.Reason),
	}
}

func toEventOutput(e domain.Event) focusdto.EventOutput {
	return focusdto.EventOutput{
		Kind:      string(e.Kind),
		Remaining: e.Remaining,
		Stage:     e.Stage,
		Harvest:   toHarvestOutput(e.Harvest),
	}
}
