package db

import (
	"context"
	"sync"
)

// NewMemory returns a ledger store that lives only as long as the process.
func NewMemory() *DB {
	return New(&memoryBackend{data: make(map[string][]byte)})
}

type memoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func (m *memoryBackend) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[name]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *memoryBackend) SetAll(_ context.Context, writes map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, data := range writes {
		m.data[name] = append([]byte(nil), data...)
	}
	return nil
}

func (m *memoryBackend) Close() error { return nil }
