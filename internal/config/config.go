// Package config loads the client configuration from a TOML file and the
// credentials from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ConfigFormatVersion is the current version of the configuration file format
const ConfigFormatVersion = "0.1.0"

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.toml"

// Environment variables holding the account credentials.
const (
	EnvEmail    = "MON_MARCHE_EMAIL"
	EnvPassword = "MON_MARCHE_PASSWORD"
)

// APIConfig holds the remote backend addresses
type APIConfig struct {
	BaseURL string `toml:"base_url"` // root of the JSON API
	SiteURL string `toml:"site_url"` // public site, used to build product links
}

// HTTPConfig holds transport settings
type HTTPConfig struct {
	Timeout   string `toml:"timeout"` // Go duration, e.g. "15s"
	UserAgent string `toml:"user_agent"`
}

// GetTimeout returns the transport timeout. An empty value means no timeout.
func (h *HTTPConfig) GetTimeout() (time.Duration, error) {
	if h.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(h.Timeout)
}

// SearchConfig holds catalog search pipeline settings
type SearchConfig struct {
	MaxConcurrency      int  `toml:"max_concurrency"`       // 0 means one goroutine per search hit
	IsolateItemFailures bool `toml:"isolate_item_failures"` // keep the search alive when a detail lookup fails
}

// SessionConfig holds the session file location
type SessionConfig struct {
	File string `toml:"file"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
}

// ConfigParam holds all configuration parameters for the client
type ConfigParam struct {
	FormatVersion string        `toml:"format_version"`
	API           APIConfig     `toml:"api"`
	HTTP          HTTPConfig    `toml:"http"`
	Search        SearchConfig  `toml:"search"`
	Session       SessionConfig `toml:"session"`
	Log           LogConfig     `toml:"log"`
}

// GetServerURL returns the root of the backend API.
func (c *ConfigParam) GetServerURL() string {
	return c.API.BaseURL
}

func (c *ConfigParam) GetUserAgent() string {
	return c.HTTP.UserAgent
}

// Default returns the configuration used when no file exists.
func Default() *ConfigParam {
	return &ConfigParam{
		FormatVersion: ConfigFormatVersion,
		API: APIConfig{
			BaseURL: "https://www.mon-marche.fr",
			SiteURL: "https://www.mon-marche.fr",
		},
		HTTP: HTTPConfig{
			Timeout:   "30s",
			UserAgent: "monmarche-cli/" + Version,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/monmarche on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "monmarche", DefaultConfigFile), nil
}

// ValidateConfig checks if all required configuration values are present and valid
func ValidateConfig(cfg *ConfigParam) error {
	if cfg.FormatVersion != ConfigFormatVersion {
		return fmt.Errorf("unsupported config file format version: %s", cfg.FormatVersion)
	}

	for name, raw := range map[string]string{"api.base_url": cfg.API.BaseURL, "api.site_url": cfg.API.SiteURL} {
		if raw == "" {
			return fmt.Errorf("%s is required", name)
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL", name)
		}
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	cfg.API.SiteURL = strings.TrimRight(cfg.API.SiteURL, "/")

	if _, err := cfg.HTTP.GetTimeout(); err != nil {
		return fmt.Errorf("invalid http.timeout: %v", err)
	}
	if cfg.Search.MaxConcurrency < 0 {
		return errors.New("search.max_concurrency must not be negative")
	}
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = "monmarche-cli/" + Version
	}
	return nil
}

// LoadConfig loads configuration from a file. A missing file at the default
// location yields the defaults; a missing file that was asked for explicitly
// is an error.
func LoadConfig(filename string) (*ConfigParam, error) {
	explicit := filename != ""
	if !explicit {
		var err error
		filename, err = GetDefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()
	content, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(content), cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %v", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	return cfg, nil
}

// Credentials returns the account credentials from the process environment,
// after loading a .env file from the working directory if one exists.
func Credentials() (email, password string) {
	if cwd, err := os.Getwd(); err == nil {
		_ = godotenv.Load(filepath.Join(cwd, ".env")) // no error if .env doesn't exist
	}
	return strings.TrimSpace(os.Getenv(EnvEmail)), os.Getenv(EnvPassword)
}
