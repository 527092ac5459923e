package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the agent configuration: worker connection, logging, the rclone
// binary, and the record store holding backup tasks and cloud credentials.
type Config struct {
	TempDir     string         `mapstructure:"temp_dir"`
	Log         LogConfig      `mapstructure:"log"`
	Temporal    TemporalConfig `mapstructure:"temporal"`
	Path        PathConfig     `mapstructure:"path"`
	Rclone      RcloneConfig   `mapstructure:"rclone"`
	Store       StoreConfig    `mapstructure:"store"`
	Tasks       []Task         `mapstructure:"tasks"`
	Credentials []Credential   `mapstructure:"credentials"`
}

// NewConfig loads configuration from file and environment variables.
// configPath: path to the config file (e.g., "config.yaml"). If empty, looks for "config.yaml" in current directory
func NewConfig(ctx context.Context, configPath string) (*Config, error) {
	config := new(Config)
	v := viper.New()

	v.SetDefault("temp_dir", "/tmp/cloudsync")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.path", "stdout")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)

	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "cloudsync")
	v.SetDefault("temporal.tls", false)
	v.SetDefault("temporal.api_key", "")

	v.SetDefault("path.rclone", "/usr/local/bin/rclone")
	v.SetDefault("rclone.stats", "1s")
	v.SetDefault("rclone.stats_log_level", "NOTICE")
	v.SetDefault("rclone.extra_args", []string{})

	v.SetDefault("store.driver", StoreDriverConfig)
	v.SetDefault("store.dsn", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Println("No config file found, using defaults and environment variables")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("cloudsync")
	v.AutomaticEnv()

	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}

	if err := config.Store.validate(); err != nil {
		return nil, err
	}

	return config, nil
}
