package in

import (
	"context"

	"blockgarden/internal/modules/assistant/dto"
	assistantin "blockgarden/internal/modules/assistant/port/in"
)

type CLIHandler struct {
	usecase assistantin.Usecase
}

func NewCLIHandler(usecase assistantin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Summarize(ctx context.Context, snippets []string) dto.TextOutput {
	return h.usecase.Summarize(ctx, dto.SummarizeInput{Snippets: snippets})
}

func (h CLIHandler) FocusTip(ctx context.Context, stage int, stageName string) dto.TextOutput {
	return h.usecase.FocusTip(ctx, dto.TipInput{Stage: stage, StageName: stageName})
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
