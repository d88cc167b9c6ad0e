package out

import (
	"context"
	"time"
)

type Planted struct {
	ItemID      string
	EntityID    string
	EntityType  string
	CompletedAt int64
}

// Garden records harvests.
type Garden interface {
	Plant(ctx context.Context, entityID string, completedAt time.Time) (Planted, error)
}

// Schedule exposes the block the session is working on.
type Schedule interface {
	CurrentBlock(ctx context.Context) (int, bool, error)
	SelectBlock(ctx context.Context, id int) error
	CompleteBlock(ctx context.Context, id int, score int) (bool, error)
}
