package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/timeshift-console/internal/services/endpoint"
	"github.com/fgeck/timeshift-console/internal/services/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the timeshift settings endpoint",
	Long: `Serve the timeshift settings endpoint on server.listen.

The endpoint answers on /timeshift:
  op=loadSettings  returns {"config": {...}}
  op=saveSettings  stores the submitted form, {"success": false, "errormsg": ...} on failure`,
	RunE: serve,
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	settingsStore, err := store.New(cfg.Store, log.Logger)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open settings store")
		return err
	}
	defer func() { _ = settingsStore.Close() }()

	log.Info().
		Str("listen", cfg.Server.Listen).
		Str("driver", cfg.Store.Driver).
		Msg("configuration loaded")

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	svc := endpoint.New(log.Logger, settingsStore)
	if err := svc.Serve(ctx, cfg.Server); err != nil {
		log.Error().Err(err).Msg("settings endpoint failed")
		return err
	}

	log.Info().Msg("settings endpoint stopped")
	return nil
}
