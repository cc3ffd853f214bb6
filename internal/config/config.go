package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/willibrandon/irisconns/internal/conns"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the root configuration structure
type Config struct {
	DefaultConnection string         `mapstructure:"default_connection"`
	Driver            string         `mapstructure:"driver"`
	DataDir           string         `mapstructure:"data_dir"`
	Log               LogConfig      `mapstructure:"log"`
	Postgres          PostgresConfig `mapstructure:"postgres"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// PostgresConfig holds settings for the postgres driver
type PostgresConfig struct {
	SSLMode      string `mapstructure:"sslmode"`
	PoolMaxConns int    `mapstructure:"pool_max_conns"`
	PoolMinConns int    `mapstructure:"pool_min_conns"`
}

// ConfigDir returns ~/.config/irisconns.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "irisconns")
	}
	return filepath.Join(home, ".config", "irisconns")
}

// LoadConfig loads settings from config.yaml and the environment.
func LoadConfig() (*Config, error) {
	return load(viper.New(), "")
}

// LoadFromPath loads settings from the given file and the environment.
func LoadFromPath(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	// Environment variable support
	v.SetEnvPrefix("IRISCONNS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// $CONN selects the default connection without a prefix
	if err := v.BindEnv("default_connection", "IRISCONNS_DEFAULT_CONNECTION", conns.EnvDefaultConnection); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateConfig validates the configuration values
func ValidateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.DefaultConnection) == "" {
		return fmt.Errorf("default_connection cannot be empty")
	}

	switch cfg.Driver {
	case DriverSQLite:
		if cfg.DataDir == "" {
			return fmt.Errorf("data_dir cannot be empty for the %s driver", DriverSQLite)
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("driver must be one of: %v, got %s", []string{DriverSQLite, DriverPostgres}, cfg.Driver)
	}

	validSSLModes := []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}
	validMode := false
	for _, mode := range validSSLModes {
		if cfg.Postgres.SSLMode == mode {
			validMode = true
			break
		}
	}
	if !validMode {
		return fmt.Errorf("postgres.sslmode must be one of: %v, got %s", validSSLModes, cfg.Postgres.SSLMode)
	}

	if cfg.Postgres.PoolMaxConns < 1 {
		return fmt.Errorf("postgres.pool_max_conns must be >= 1, got %d", cfg.Postgres.PoolMaxConns)
	}
	if cfg.Postgres.PoolMinConns < 0 {
		return fmt.Errorf("postgres.pool_min_conns must be >= 0, got %d", cfg.Postgres.PoolMinConns)
	}
	if cfg.Postgres.PoolMaxConns < cfg.Postgres.PoolMinConns {
		return fmt.Errorf("postgres.pool_max_conns (%d) must be >= pool_min_conns (%d)",
			cfg.Postgres.PoolMaxConns, cfg.Postgres.PoolMinConns)
	}

	return nil
}

// applyDefaults sets default configuration values
func applyDefaults(v *viper.Viper) {
	v.SetDefault("default_connection", conns.DefaultConnectionName)
	v.SetDefault("driver", DriverSQLite)
	v.SetDefault("data_dir", filepath.Join(ConfigDir(), "data"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("postgres.sslmode", "prefer")
	v.SetDefault("postgres.pool_max_conns", 4)
	v.SetDefault("postgres.pool_min_conns", 0)
}
