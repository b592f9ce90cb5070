// Package config provides configuration file parsing.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/spf13/viper"
)

// Store drivers understood by the store package.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.AppConfig, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a reader (useful for testing).
func (p *Parser) LoadReader(content string) (*models.AppConfig, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

// Defaults returns the configuration used when no file is given.
func Defaults() *models.AppConfig {
	cfg, _ := NewParser().parse()
	return cfg
}

func (p *Parser) parse() (*models.AppConfig, error) {
	cfg := &models.AppConfig{}

	// Parse server settings.
	cfg.Server = models.ServerConfig{
		Listen:       p.v.GetString("server.listen"),
		ReadTimeout:  p.v.GetDuration("server.read_timeout"),
		WriteTimeout: p.v.GetDuration("server.write_timeout"),
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":9981"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}

	// Parse store settings.
	cfg.Store = models.StoreConfig{
		Driver: strings.ToLower(p.v.GetString("store.driver")),
		Path:   p.expandEnv(p.v.GetString("store.path")),
		DSN:    p.expandEnv(p.v.GetString("store.dsn")),
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverFile
	}

	switch cfg.Store.Driver {
	case DriverMemory:
	case DriverFile:
		if cfg.Store.Path == "" {
			cfg.Store.Path = "timeshift.yaml"
		}
	case DriverSQLite:
		if cfg.Store.Path == "" {
			cfg.Store.Path = "timeshift.db"
		}
	case DriverPostgres, DriverMySQL:
		if cfg.Store.DSN == "" {
			return nil, fmt.Errorf("store.dsn is required for the %s driver", cfg.Store.Driver)
		}
	default:
		return nil, fmt.Errorf("store.driver must be one of: memory, file, sqlite, postgres, mysql")
	}

	// Parse client settings.
	cfg.Client = models.ClientConfig{
		URL:     p.expandEnv(p.v.GetString("client.url")),
		Timeout: p.v.GetDuration("client.timeout"),
	}
	if cfg.Client.URL == "" {
		cfg.Client.URL = "http://localhost:9981"
	}
	cfg.Client.URL = strings.TrimRight(cfg.Client.URL, "/")
	if cfg.Client.Timeout == 0 {
		cfg.Client.Timeout = 10 * time.Second
	}

	return cfg, nil
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}

	if !strings.HasPrefix(cfg.Client.URL, "http://") && !strings.HasPrefix(cfg.Client.URL, "https://") {
		return fmt.Errorf("client.url must be an http or https URL")
	}

	if cfg.Client.Timeout < 0 {
		return fmt.Errorf("client.timeout must not be negative")
	}

	return nil
}
