package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const stateDirName = ".jjal"

// Config holds the client settings. The backend section points at the managed
// backend (REST, storage and auth all live under one base URL); when it is
// left empty the client runs against the built-in fallback catalog only.
type Config struct {
	Backend  BackendConfig `mapstructure:"backend"`
	StateDir string        `mapstructure:"state_dir"`
}

// BackendConfig identifies the managed backend project.
type BackendConfig struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anon_key"`
}

// Configured reports whether a backend has been set up. Without both values
// every remote call degrades to the fallback catalog.
func (c *Config) Configured() bool {
	return c.Backend.URL != "" && c.Backend.AnonKey != ""
}

// Load reads settings from .env (best effort), then config.yaml in the state
// directory or working directory, then JJAL_* environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	stateDir, err := DefaultStateDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(stateDir)
	v.AddConfigPath(".")

	v.SetDefault("backend.url", os.Getenv("JJAL_BACKEND_URL"))
	v.SetDefault("backend.anon_key", os.Getenv("JJAL_ANON_KEY"))
	v.SetDefault("state_dir", stateDir)

	v.SetEnvPrefix("jjal")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, env vars and defaults carry it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.StateDir == "" {
		cfg.StateDir = stateDir
	}
	return &cfg, nil
}

// DefaultStateDir returns ~/.jjal.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, stateDirName), nil
}
