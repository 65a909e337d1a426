package preferences

import (
	"context"
	"sync"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
)

// MemoryStorage is a simple in-memory implementation of Storage
type MemoryStorage struct {
	mu    sync.RWMutex
	store map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		store: make(map[string]string),
	}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.store[key]
	if !ok {
		return "", errorz.ErrNotFound
	}
	return value, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = value
	return nil
}
