package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Backend  BackendConfig
	Sync     SyncConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// BackendConfig holds remote REST backend settings
type BackendConfig struct {
	BaseURL        string
	SessionId      string
	RequestTimeout time.Duration
}

// SyncConfig holds background sync settings
type SyncConfig struct {
	Interval       time.Duration
	StartupTimeout time.Duration
	PlacesFile     string
}
