package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fgeck/timeshift-console/internal/config"
	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func sampleSettings() models.TimeshiftSettings {
	return models.TimeshiftSettings{
		Enabled:         true,
		OnDemand:        true,
		Path:            "/var/cache/timeshift",
		MaxPeriod:       90,
		UnlimitedPeriod: false,
		MaxSize:         4096,
		UnlimitedSize:   true,
	}
}

// storeFactories returns one freshly opened store per driver usable without external services.
func storeFactories(t *testing.T) map[string]func() Service {
	t.Helper()

	return map[string]func() Service{
		config.DriverMemory: func() Service {
			return NewMemory()
		},
		config.DriverFile: func() Service {
			return NewFile(filepath.Join(t.TempDir(), "timeshift.yaml"), testLogger())
		},
		config.DriverSQLite: func() Service {
			svc, err := OpenSQL(models.StoreConfig{
				Driver: config.DriverSQLite,
				Path:   filepath.Join(t.TempDir(), "timeshift.db"),
			}, testLogger())
			require.NoError(t, err)
			return svc
		},
	}
}

func TestStore_LoadDefaults(t *testing.T) {
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			svc := open()
			defer func() { _ = svc.Close() }()

			settings, err := svc.Load(context.Background())

			require.NoError(t, err)
			assert.Equal(t, models.DefaultTimeshiftSettings(), settings)
		})
	}
}

func TestStore_SaveThenLoad(t *testing.T) {
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			svc := open()
			defer func() { _ = svc.Close() }()

			ctx := context.Background()
			require.NoError(t, svc.Save(ctx, sampleSettings()))

			settings, err := svc.Load(ctx)

			require.NoError(t, err)
			assert.Equal(t, sampleSettings(), settings)
		})
	}
}

func TestStore_SaveOverwritesWholesale(t *testing.T) {
	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			svc := open()
			defer func() { _ = svc.Close() }()

			ctx := context.Background()
			require.NoError(t, svc.Save(ctx, sampleSettings()))

			second := models.TimeshiftSettings{MaxPeriod: 0, MaxSize: 1}
			require.NoError(t, svc.Save(ctx, second))

			settings, err := svc.Load(ctx)

			require.NoError(t, err)
			assert.Equal(t, second, settings)
		})
	}
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, svc := range []Service{NewMemory(), NewFile(filepath.Join(t.TempDir(), "x.yaml"), testLogger())} {
		_, err := svc.Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, svc.Save(ctx, sampleSettings()), context.Canceled)
	}
}

func TestFile_WritesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "timeshift.yaml")
	svc := NewFile(path, testLogger())

	require.NoError(t, svc.Save(context.Background(), sampleSettings()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "path: /var/cache/timeshift")
	assert.Contains(t, string(data), "max_period: 90")
	assert.Contains(t, string(data), "unlimited_size: true")

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFile_PartialDocumentKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeshift.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enabled: true\n"), 0o600))

	settings, err := NewFile(path, testLogger()).Load(context.Background())

	require.NoError(t, err)
	assert.True(t, settings.Enabled)
	assert.Equal(t, int64(60), settings.MaxPeriod)
	assert.Equal(t, int64(10240), settings.MaxSize)
}

func TestFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeshift.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enabled: [true\n"), 0o600))

	_, err := NewFile(path, testLogger()).Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing settings file")
}

func TestNew_Drivers(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     models.StoreConfig
		want    interface{}
		wantErr string
	}{
		{name: "memory", cfg: models.StoreConfig{Driver: config.DriverMemory}, want: &Memory{}},
		{name: "file", cfg: models.StoreConfig{Driver: config.DriverFile, Path: filepath.Join(dir, "t.yaml")}, want: &File{}},
		{name: "sqlite", cfg: models.StoreConfig{Driver: config.DriverSQLite, Path: filepath.Join(dir, "t.db")}, want: &SQL{}},
		{name: "unknown", cfg: models.StoreConfig{Driver: "etcd"}, wantErr: "unknown store driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := New(tt.cfg, testLogger())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			defer func() { _ = svc.Close() }()
			assert.IsType(t, tt.want, svc)
		})
	}
}

func TestOpenSQL_RejectsNonSQLDriver(t *testing.T) {
	_, err := OpenSQL(models.StoreConfig{Driver: config.DriverFile}, testLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not an SQL driver")
}
