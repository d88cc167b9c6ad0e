package out

import (
	"context"

	"blockgarden/internal/modules/schedule/domain"
)

// BlockStore persists the day's block list as one record.
type BlockStore interface {
	SaveBlocks(ctx context.Context, blocks []domain.TimeBlock) error
	LoadBlocks(ctx context.Context) ([]domain.TimeBlock, error)
	// SaveDay and LoadDay keep the planning day next to the list.
	SaveDay(ctx context.Context, day string) error
	LoadDay(ctx context.Context) (string, error)
}
