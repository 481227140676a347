package kv

import (
	"context"
	"sync"
)

// Memory is an in-process store. A positive maxBytes caps the summed size of
// all values, which lets callers exercise quota failures.
type Memory struct {
	mu       sync.RWMutex
	data     map[string][]byte
	maxBytes int
}

func NewMemory(maxBytes int) *Memory {
	return &Memory{data: make(map[string][]byte), maxBytes: maxBytes}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(v))
	copy(out, v)

	return out, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxBytes > 0 {
		size := len(value)

		for k, v := range m.data {
			if k != key {
				size += len(v)
			}
		}

		if size > m.maxBytes {
			return ErrQuotaExceeded
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored

	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)

	return nil
}

func (m *Memory) Close() error {
	return nil
}
