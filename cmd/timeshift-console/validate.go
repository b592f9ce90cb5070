package main

import (
	"fmt"
	"os"

	"github.com/fgeck/timeshift-console/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file without starting the endpoint or contacting a console.`,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	// Check if file exists
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Error().Str("file", configFile).Msg("config file not found")
		return fmt.Errorf("config file not found: %s", configFile)
	}

	// Load configuration
	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to parse config")
		return err
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("configuration validation failed")
		return err
	}

	// Print configuration summary
	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Println("Server:")
	fmt.Printf("  Listen: %s\n", cfg.Server.Listen)
	fmt.Printf("  Read timeout: %s\n", cfg.Server.ReadTimeout)
	fmt.Printf("  Write timeout: %s\n", cfg.Server.WriteTimeout)
	fmt.Println()
	fmt.Println("Store:")
	fmt.Printf("  Driver: %s\n", cfg.Store.Driver)
	switch cfg.Store.Driver {
	case config.DriverFile, config.DriverSQLite:
		fmt.Printf("  Path: %s\n", cfg.Store.Path)
	case config.DriverPostgres, config.DriverMySQL:
		fmt.Printf("  DSN: (configured)\n")
	}
	fmt.Println()
	fmt.Println("Client:")
	fmt.Printf("  URL: %s\n", cfg.Client.URL)
	fmt.Printf("  Timeout: %s\n", cfg.Client.Timeout)

	return nil
}
