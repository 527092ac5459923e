package config

import "fmt"

const (
	StoreDriverConfig = "config"
	StoreDriverMySQL  = "mysql"
)

// LogConfig represents the logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// TemporalConfig holds the worker connection settings
type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
	TLS       bool   `mapstructure:"tls"`
	// APIKey authenticates against Temporal Cloud; empty disables it
	APIKey string `mapstructure:"api_key"`
}

// RcloneConfig tunes the external tree sync process
type RcloneConfig struct {
	Stats         string   `mapstructure:"stats"`
	StatsLogLevel string   `mapstructure:"stats_log_level"`
	ExtraArgs     []string `mapstructure:"extra_args"`
}

// StoreConfig selects where backup tasks and cloud credentials are read from.
// The "config" driver serves the tasks/credentials sections of this file.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

func (s StoreConfig) validate() error {
	switch s.Driver {
	case StoreDriverConfig:
		return nil
	case StoreDriverMySQL:
		if s.DSN == "" {
			return fmt.Errorf("store.dsn is required for the %s driver", s.Driver)
		}
		return nil
	default:
		return fmt.Errorf("unknown store driver: %s", s.Driver)
	}
}
