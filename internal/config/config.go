package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	HTTPAddr string
	LogLevel string

	StorageBackend string // file | postgres
	PostgresDSN    string
	SessionsFile   string
	DiapersFile    string

	AuthToken      string
	AuthServiceURL string
}

// Load reads configuration from environment variables with sane defaults
// for a local development setup.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", ":8088")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_BACKEND", "file")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("SESSIONS_FILE", "data/sleep_sessions.json")
	v.SetDefault("DIAPERS_FILE", "data/diaper_changes.json")
	v.SetDefault("AUTH_TOKEN", "MOCK-TOKEN")
	v.SetDefault("AUTH_SERVICE_URL", "")

	v.AutomaticEnv()

	cfg := &Config{
		Env:            v.GetString("APP_ENV"),
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		StorageBackend: v.GetString("STORAGE_BACKEND"),
		PostgresDSN:    v.GetString("POSTGRES_DSN"),
		SessionsFile:   v.GetString("SESSIONS_FILE"),
		DiapersFile:    v.GetString("DIAPERS_FILE"),
		AuthToken:      v.GetString("AUTH_TOKEN"),
		AuthServiceURL: v.GetString("AUTH_SERVICE_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "file":
		if c.SessionsFile == "" || c.DiapersFile == "" {
			return errors.New("file storage requires SESSIONS_FILE and DIAPERS_FILE to be set")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	return nil
}
