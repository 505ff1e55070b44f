package storage

import (
	"context"
	"sync"

	"taskflow/domain"
)

// Memory keeps settings for the lifetime of the process.
type Memory struct {
	mu       sync.RWMutex
	settings map[string]domain.Settings
}

func NewMemory() *Memory {
	return &Memory{settings: make(map[string]domain.Settings)}
}

func (m *Memory) FetchSettings(_ context.Context, boardID string) (domain.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings[boardID], nil
}

func (m *Memory) SaveSettings(_ context.Context, boardID string, settings domain.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[boardID] = settings
	return nil
}
