package store

import (
	"context"
	"sync"

	"github.com/fgeck/timeshift-console/internal/models"
)

// Memory keeps the record in process memory.
type Memory struct {
	mu       sync.RWMutex
	settings models.TimeshiftSettings
}

// NewMemory creates a memory store holding the defaults.
func NewMemory() *Memory {
	return &Memory{settings: models.DefaultTimeshiftSettings()}
}

// Load returns the current record.
func (m *Memory) Load(ctx context.Context) (models.TimeshiftSettings, error) {
	if err := ctx.Err(); err != nil {
		return models.TimeshiftSettings{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

// Save replaces the current record.
func (m *Memory) Save(ctx context.Context, settings models.TimeshiftSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
