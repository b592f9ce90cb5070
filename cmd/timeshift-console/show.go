package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/fgeck/timeshift-console/internal/services/client"
	"github.com/fgeck/timeshift-console/internal/services/panel"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the timeshift settings panel",
	Long:  `Load the timeshift settings from client.url and print the settings panel.`,
	RunE:  show,
}

// mountPanel loads the panel against the configured endpoint.
func mountPanel(ctx context.Context, cfg *models.AppConfig) (*panel.Panel, error) {
	remote := client.New(log.Logger, cfg.Client)
	p := panel.New(log.Logger, remote, terminalAlerter{out: os.Stderr}, terminalWait{out: os.Stderr})

	p.Mount(ctx, panel.NewConsole(), 0)
	<-p.Ready()

	if err := p.LoadError(); err != nil {
		return nil, fmt.Errorf("loading settings from %s: %w", cfg.Client.URL, err)
	}
	return p, nil
}

func show(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := mountPanel(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if err := panel.WriteText(os.Stdout, p.Render()); err != nil {
		return err
	}

	help := p.Help()
	fmt.Printf("\nHelp: %s (%s)\n", help.Title, help.Page)
	return nil
}
