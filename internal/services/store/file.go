package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// File keeps the record in a YAML document on disk.
type File struct {
	mu     sync.Mutex
	path   string
	logger zerolog.Logger
}

// NewFile creates a file store. The file is created on the first save.
func NewFile(path string, logger zerolog.Logger) *File {
	return &File{path: path, logger: logger}
}

// Load reads the record, returning the defaults if the file does not exist.
func (f *File) Load(ctx context.Context) (models.TimeshiftSettings, error) {
	if err := ctx.Err(); err != nil {
		return models.TimeshiftSettings{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.Debug().Str("path", f.path).Msg("settings file not found, using defaults")
		return models.DefaultTimeshiftSettings(), nil
	}
	if err != nil {
		return models.TimeshiftSettings{}, fmt.Errorf("reading settings file: %w", err)
	}

	settings := models.DefaultTimeshiftSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return models.TimeshiftSettings{}, fmt.Errorf("parsing settings file %s: %w", f.path, err)
	}

	return settings, nil
}

// Save writes the record to a temporary file and renames it into place.
func (f *File) Save(ctx context.Context, settings models.TimeshiftSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".timeshift-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("replacing settings file: %w", err)
	}

	f.logger.Debug().Str("path", f.path).Msg("settings written")
	return nil
}

// Close is a no-op.
func (f *File) Close() error {
	return nil
}
