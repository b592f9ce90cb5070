//go:build integration

package integration

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/fgeck/timeshift-console/internal/config"
	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/fgeck/timeshift-console/internal/services/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func storeConfig(t *testing.T, driver, envVar string) models.StoreConfig {
	t.Helper()

	dsn := os.Getenv(envVar)
	if dsn == "" {
		t.Skipf("%s not set", envVar)
	}

	return models.StoreConfig{Driver: driver, DSN: dsn}
}

func exerciseStore(t *testing.T, cfg models.StoreConfig) {
	t.Helper()

	svc, err := store.New(cfg, testLogger())
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ctx := context.Background()

	want := models.TimeshiftSettings{
		Enabled:         true,
		OnDemand:        true,
		Path:            "/var/cache/timeshift",
		MaxPeriod:       180,
		UnlimitedPeriod: false,
		MaxSize:         8192,
		UnlimitedSize:   true,
	}
	require.NoError(t, svc.Save(ctx, want))

	got, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Saving identical values again must not fail.
	require.NoError(t, svc.Save(ctx, want))

	want.Enabled = false
	want.MaxSize = 0
	require.NoError(t, svc.Save(ctx, want))

	got, err = svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLStore_Postgres(t *testing.T) {
	exerciseStore(t, storeConfig(t, config.DriverPostgres, "TEST_POSTGRES_DSN"))
}

func TestSQLStore_MySQL(t *testing.T) {
	exerciseStore(t, storeConfig(t, config.DriverMySQL, "TEST_MYSQL_DSN"))
}
