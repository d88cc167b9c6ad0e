package in

import (
	"context"

	"blockgarden/internal/modules/assistant/dto"
)

// Usecase never fails Summarize or FocusTip: problems become fallback text.
type Usecase interface {
	Summarize(ctx context.Context, input dto.SummarizeInput) dto.TextOutput
	FocusTip(ctx context.Context, input dto.TipInput) dto.TextOutput
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
}
