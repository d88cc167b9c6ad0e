package out

import (
	"context"
	"time"

	"blockgarden/internal/modules/garden/domain"
)

type HistoryStore interface {
	SaveHistory(ctx context.Context, history []domain.GardenItem) error
	LoadHistory(ctx context.Context) ([]domain.GardenItem, error)
}

// Journal records the harvests of one day as a note and returns its path.
type Journal interface {
	Record(ctx context.Context, day time.Time, items []domain.GardenItem) (string, error)
}
