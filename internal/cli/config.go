package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/trackly/tracker/internal/client"
	"github.com/trackly/tracker/internal/pagination"
)

const envAPIURL = "TRACKER_API_URL"

// Config is the client configuration file, ~/.config/tracker/config.yaml.
type Config struct {
	BaseURL           string        `yaml:"base_url"`
	PageSize          int           `yaml:"page_size"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	SessionPath       string        `yaml:"session_path"`
}

func defaultConfig() *Config {
	return &Config{
		BaseURL:  client.DefaultBaseURL,
		PageSize: pagination.DefaultPageSize,
		Timeout:  client.DefaultTimeout,
	}
}

// DefaultConfigPath returns the config file under the user config dir.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tracker", "config.yaml"), nil
}

// LoadConfig reads path over the defaults. A missing file is not an error.
// TRACKER_API_URL overrides base_url.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv(envAPIURL)); v != "" {
		cfg.BaseURL = v
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.PageSize < 1 || c.PageSize > pagination.MaxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d", pagination.MaxPageSize)
	}
	if c.Timeout <= 0 {
		c.Timeout = client.DefaultTimeout
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	return nil
}
