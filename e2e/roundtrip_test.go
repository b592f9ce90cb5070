//go:build e2e

package e2e

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/fgeck/timeshift-console/internal/services/client"
	"github.com/fgeck/timeshift-console/internal/services/endpoint"
	"github.com/fgeck/timeshift-console/internal/services/panel"
	"github.com/fgeck/timeshift-console/internal/services/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type recordingAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (a *recordingAlerter) Alert(title, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, title+": "+message)
}

type failingStore struct {
	store.Service
}

func (failingStore) Save(ctx context.Context, settings models.TimeshiftSettings) error {
	return io.ErrShortWrite
}

func startConsole(t *testing.T, settingsStore store.Service) (*panel.Panel, *recordingAlerter) {
	t.Helper()

	server := httptest.NewServer(endpoint.New(testLogger(), settingsStore).Handler())
	t.Cleanup(server.Close)

	remote := client.New(testLogger(), models.ClientConfig{URL: server.URL, Timeout: 5 * time.Second})
	alerter := &recordingAlerter{}
	p := panel.New(testLogger(), remote, alerter, nil)

	p.Mount(context.Background(), panel.NewConsole(), 0)
	select {
	case <-p.Ready():
	case <-time.After(10 * time.Second):
		t.Fatal("panel did not load")
	}
	require.NoError(t, p.LoadError())
	return p, alerter
}

func TestRoundTrip_FileStore_E2E(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeshift.yaml")
	settingsStore := store.NewFile(path, testLogger())

	p, alerter := startConsole(t, settingsStore)

	require.NoError(t, p.SetChecked(models.KeyEnabled, true))
	require.NoError(t, p.SetValue(models.KeyPath, "/srv/timeshift"))
	require.NoError(t, p.SetValue(models.KeyMaxPeriod, "240"))
	require.NoError(t, p.SetChecked(models.KeyUnlimitedSize, true))
	require.NoError(t, p.Save(context.Background()))
	assert.Empty(t, alerter.messages)

	stored, err := settingsStore.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TimeshiftSettings{
		Enabled:         true,
		Path:            "/srv/timeshift",
		MaxPeriod:       240,
		UnlimitedPeriod: false,
		MaxSize:         10240,
		UnlimitedSize:   true,
	}, stored)

	// A second panel sees the saved values and the derived disabled state.
	second, _ := startConsole(t, settingsStore)
	maxSize, ok := second.Field(models.KeyMaxSize)
	require.True(t, ok)
	assert.True(t, maxSize.Disabled)
	assert.Equal(t, p.Values(), second.Values())
}

func TestRoundTrip_SQLiteStore_Idempotent_E2E(t *testing.T) {
	settingsStore, err := store.OpenSQL(models.StoreConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "timeshift.db"),
	}, testLogger())
	require.NoError(t, err)
	defer func() { _ = settingsStore.Close() }()

	initial := models.TimeshiftSettings{OnDemand: true, Path: "/ts", MaxPeriod: 15, UnlimitedPeriod: true, MaxSize: 300}
	require.NoError(t, settingsStore.Save(context.Background(), initial))

	p, _ := startConsole(t, settingsStore)
	require.NoError(t, p.Save(context.Background()))

	stored, err := settingsStore.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, initial, stored)
}

func TestRoundTrip_SaveFailure_E2E(t *testing.T) {
	mem := store.NewMemory()
	p, alerter := startConsole(t, failingStore{Service: mem})

	require.NoError(t, p.SetValue(models.KeyPath, "/full/disk"))
	before := p.Values()

	err := p.Save(context.Background())

	require.Error(t, err)
	require.Len(t, alerter.messages, 1)
	assert.Equal(t, "Save failed: Unable to save configuration: short write", alerter.messages[0])
	assert.Equal(t, before, p.Values())
}
