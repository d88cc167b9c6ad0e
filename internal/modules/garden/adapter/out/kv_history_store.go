package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"blockgarden/internal/modules/garden/domain"
	gardenout "blockgarden/internal/modules/garden/port/out"
	apperrors "blockgarden/internal/platform/errors"
	"blockgarden/internal/platform/kv"
)

type KVHistoryStore struct {
	store kv.Store
}

func NewKVHistoryStore(store kv.Store) gardenout.HistoryStore {
	return &KVHistoryStore{store: store}
}

func (s *KVHistoryStore) SaveHistory(ctx context.Context, history []domain.GardenItem) error {
	if history == nil {
		history = []domain.GardenItem{}
	}
	payload, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal garden: %w", err)
	}
	return s.store.Save(ctx, kv.KeyGarden, payload)
}

func (s *KVHistoryStore) LoadHistory(ctx context.Context) ([]domain.GardenItem, error) {
	payload, err := s.store.Load(ctx, kv.KeyGarden)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	history := []domain.GardenItem{}
	if err := json.Unmarshal(payload, &history); err != nil {
		return nil, fmt.Errorf("%w: decode garden: %w", apperrors.ErrCorruptData, err)
	}
	return history, nil
}
