package storage

import (
	"context"
	"sync"
)

// MemoryKV keeps payloads in a map. Used by tests and runs with persistence disabled.
type MemoryKV struct {
	mu          sync.RWMutex
	initialized bool
	entries     map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{}
}

func (s *MemoryKV) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	if s.entries == nil {
		s.entries = make(map[string][]byte)
	}
	return nil
}

func (s *MemoryKV) Put(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.entries[key] = append([]byte(nil), payload...)
	return nil
}

func (s *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false, ErrNotInitialized
	}
	payload, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

func (s *MemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	delete(s.entries, key)
	return nil
}

func (s *MemoryKV) Close() error {
	return nil
}
