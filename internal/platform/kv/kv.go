// Package kv is the two-key persistence boundary. Values are opaque JSON
// documents; callers own the encoding.
package kv

import (
	"context"
	"errors"
	"sync"
)

// Keys match the storage keys of the browser extension, so its data loads as is.
const (
	KeyBlocks = "chromeFocusBlocks"
	KeyGarden = "chromeFocusGarden"
	// KeyBlocksDay holds the planning day the block list was generated for.
	KeyBlocksDay = "blockgardenBlocksDay"
)

var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	saves  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

func (m *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	m.saves++
	return nil
}

func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Saves reports how many writes the store has accepted.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
