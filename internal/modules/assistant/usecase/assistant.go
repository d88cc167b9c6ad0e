package usecase

import (
	"context"

	"blockgarden/internal/modules/assistant/dto"
	assistantin "blockgarden/internal/modules/assistant/port/in"
	"blockgarden/internal/modules/assistant/service"
)

type Interactor struct {
	svc *service.AssistantService
}

func NewInteractor(svc *service.AssistantService) assistantin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Summarize(ctx context.Context, input dto.SummarizeInput) dto.TextOutput {
	text, fallback := i.svc.Summarize(ctx, input.Snippets, input.Language)
	return dto.TextOutput{Text: text, Fallback: fallback}
}

func (i *Interactor) FocusTip(ctx context.Context, input dto.TipInput) dto.TextOutput {
	text, fallback := i.svc.Tip(ctx, input.Stage, input.StageName)
	return dto.TextOutput{Text: text, Fallback: fallback}
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}
