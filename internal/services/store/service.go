// Package store persists the timeshift settings record.
package store

import (
	"context"
	"fmt"

	"github.com/fgeck/timeshift-console/internal/config"
	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for settings persistence.
// Load returns the defaults when nothing has been stored yet.
type Service interface {
	Load(ctx context.Context) (models.TimeshiftSettings, error)
	Save(ctx context.Context, settings models.TimeshiftSettings) error
	Close() error
}

// New opens the store selected by cfg.Driver.
func New(cfg models.StoreConfig, logger zerolog.Logger) (Service, error) {
	logger = logger.With().Str("driver", cfg.Driver).Logger()

	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverFile:
		return NewFile(cfg.Path, logger), nil
	case config.DriverSQLite, config.DriverPostgres, config.DriverMySQL:
		svc, err := OpenSQL(cfg, logger)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
