package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port      int  `yaml:"port"`
		UIEnabled bool `yaml:"ui_enabled"`
		Debug     bool `yaml:"debug"`
	} `yaml:"app"`

	Metadata struct {
		// Timeout bounds each provider HTTP call, e.g. "10s".
		Timeout  string `yaml:"timeout"`
		Language string `yaml:"language"`
		TMDB     struct {
			APIKey  string `yaml:"api_key"`
			BaseURL string `yaml:"base_url"`
		} `yaml:"tmdb"`
		OMDB struct {
			APIKey  string `yaml:"api_key"`
			BaseURL string `yaml:"base_url"`
		} `yaml:"omdb"`
	} `yaml:"metadata"`

	Health struct {
		// Schedule is a cron spec for provider health probes. Empty disables them.
		Schedule string `yaml:"schedule"`
	} `yaml:"health"`
}

// Load reads path if it exists, then applies environment overrides. A
// missing file is not an error; the defaults and environment still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	loadFromEnv(cfg)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.App.Port = 3000
	cfg.App.UIEnabled = true
	cfg.App.Debug = false

	cfg.Metadata.Timeout = "10s"
	cfg.Metadata.Language = "en-US"
	cfg.Metadata.TMDB.BaseURL = "https://api.themoviedb.org/3"
	cfg.Metadata.OMDB.BaseURL = "https://www.omdbapi.com"

	cfg.Health.Schedule = "@every 15m"
}

func loadFromEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("MOVIEDB_KEY")); v != "" {
		cfg.Metadata.TMDB.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OMDB_KEY")); v != "" {
		cfg.Metadata.OMDB.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("CINESCORE_DEBUG")); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.App.Debug = debug
		}
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("app.port %d out of range", c.App.Port))
	}
	if strings.TrimSpace(c.Metadata.TMDB.APIKey) == "" {
		errs = append(errs, errors.New("metadata.tmdb.api_key is required (or MOVIEDB_KEY)"))
	}
	if strings.TrimSpace(c.Metadata.OMDB.APIKey) == "" {
		errs = append(errs, errors.New("metadata.omdb.api_key is required (or OMDB_KEY)"))
	}
	if _, err := c.ProviderTimeout(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ProviderTimeout parses metadata.timeout.
func (c *Config) ProviderTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Metadata.Timeout)
	if err != nil {
		return 0, fmt.Errorf("metadata.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("metadata.timeout must be positive, got %s", c.Metadata.Timeout)
	}
	return d, nil
}
