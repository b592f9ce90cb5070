package models

import "time"

// AppConfig holds the complete configuration of timeshift-console.
type AppConfig struct {
	Server ServerConfig
	Store  StoreConfig
	Client ClientConfig
}

// ServerConfig holds settings endpoint listener configuration.
type ServerConfig struct {
	Listen       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig selects and configures the settings store.
type StoreConfig struct {
	Driver string // memory, file, sqlite, postgres, mysql
	Path   string // file and sqlite
	DSN    string // postgres and mysql
}

// ClientConfig holds the endpoint client configuration.
type ClientConfig struct {
	URL     string
	Timeout time.Duration
}
