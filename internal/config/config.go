// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultAppName         = "webnotify"
	DefaultMaxActions      = 0 // no platform currently presents actions
	DefaultExpireTimeoutMS = -1
	DefaultDispatchTimeout = "5s"
	DefaultLogLevel        = "info"
)

// Config represents the webnotify configuration.
type Config struct {
	App           AppConfig           `toml:"app"`
	Notifications NotificationsConfig `toml:"notifications"`
	Dispatch      DispatchConfig      `toml:"dispatch"`
	Log           LogConfig           `toml:"log"`
}

// AppConfig identifies the application to the notification service.
type AppConfig struct {
	Name string `toml:"name"`
}

// NotificationsConfig holds notification normalization and display options.
type NotificationsConfig struct {
	// MaxActions is the platform-supported maximum number of actions per
	// notification. Excess actions are dropped at creation.
	MaxActions int `toml:"max_actions"`
	// SupportsReplacement declares whether the active backend can replace
	// a displayed notification in place.
	SupportsReplacement bool `toml:"supports_replacement"`
	// ExpireTimeoutMS is passed to the notification service.
	// -1 = platform default, 0 = never expire.
	ExpireTimeoutMS int32 `toml:"expire_timeout_ms"`
}

// DispatchConfig bounds the platform backend call.
type DispatchConfig struct {
	Timeout string `toml:"timeout"` // Go duration string, "0" disables the bound
}

// TimeoutDuration parses the dispatch timeout.
func (d DispatchConfig) TimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(d.Timeout)
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// SlogLevel maps the configured level to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch l.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", l.Level)
	}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name: DefaultAppName,
		},
		Notifications: NotificationsConfig{
			MaxActions:          DefaultMaxActions,
			SupportsReplacement: false,
			ExpireTimeoutMS:     DefaultExpireTimeoutMS,
		},
		Dispatch: DispatchConfig{
			Timeout: DefaultDispatchTimeout,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "webnotify", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if the file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return errors.New("app.name cannot be empty")
	}
	if c.Notifications.MaxActions < 0 {
		return errors.New("notifications.max_actions cannot be negative")
	}
	if c.Notifications.ExpireTimeoutMS < -1 {
		return errors.New("notifications.expire_timeout_ms must be >= -1")
	}
	if _, err := c.Dispatch.TimeoutDuration(); err != nil {
		return fmt.Errorf("dispatch.timeout is not a valid duration: %w", err)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}
