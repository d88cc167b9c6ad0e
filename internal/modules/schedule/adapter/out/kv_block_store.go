package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"blockgarden/internal/modules/schedule/domain"
	scheduleout "blockgarden/internal/modules/schedule/port/out"
	apperrors "blockgarden/internal/platform/errors"
	"blockgarden/internal/platform/kv"
)

type KVBlockStore struct {
	store kv.Store
}

func NewKVBlockStore(store kv.Store) scheduleout.BlockStore {
	return &KVBlockStore{store: store}
}

func (s *KVBlockStore) SaveBlocks(ctx context.Context, blocks []domain.TimeBlock) error {
	payload, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("marshal blocks: %w", err)
	}
	return s.store.Save(ctx, kv.KeyBlocks, payload)
}

func (s *KVBlockStore) LoadBlocks(ctx context.Context) ([]domain.TimeBlock, error) {
	payload, err := s.store.Load(ctx, kv.KeyBlocks)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	blocks := []domain.TimeBlock{}
	if err := json.Unmarshal(payload, &blocks); err != nil {
		return nil, fmt.Errorf("%w: decode blocks: %w", apperrors.ErrCorruptData, err)
	}
	return blocks, nil
}

func (s *KVBlockStore) SaveDay(ctx context.Context, day string) error {
	return s.store.Save(ctx, kv.KeyBlocksDay, []byte(day))
}

func (s *KVBlockStore) LoadDay(ctx context.Context) (string, error) {
	payload, err := s.store.Load(ctx, kv.KeyBlocksDay)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	return string(payload), nil
}
