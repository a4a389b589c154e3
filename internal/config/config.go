package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/xolan/chronos/internal/osutil"
	"github.com/xolan/chronos/internal/storage"
	"github.com/xolan/chronos/internal/timeutil"
)

const (
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
	// DefaultTriggerLabel is the label used when the hotkey signal starts an entry
	DefaultTriggerLabel = "interrupt"
)

// LogLevels lists the accepted values of log_level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config represents the application configuration
type Config struct {
	// DatabasePath overrides the location of the SQLite database
	DatabasePath string `toml:"database_path"`
	// Timezone defines the timezone for time operations (IANA timezone name, e.g., "America/New_York")
	Timezone string `toml:"timezone"`
	// TriggerLabel is the label of entries started by SIGUSR1
	TriggerLabel string `toml:"trigger_label"`
	// DrinkKinds restricts the accepted drink kinds. Empty accepts any kind.
	DrinkKinds []string `toml:"drink_kinds"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `toml:"log_level"`
	// Theme is the TUI color theme (a bubbletint id, e.g. "dracula")
	Theme string `toml:"theme,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
// - timezone: "Local" (use system local timezone)
// - trigger_label: "interrupt"
// - log_level: "warn"
func DefaultConfig() Config {
	return Config{
		Timezone:     "Local",
		TriggerLabel: DefaultTriggerLabel,
		LogLevel:     "warn",
	}
}

// GetConfigPath returns the path to the config file.
// Creates the config directory if it doesn't exist.
func GetConfigPath() (string, error) {
	return osutil.AppFile(ConfigFile)
}

// Load reads and validates the config file at path.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config file not found: %w", err)
		}
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault returns the defaults when path does not exist. An existing
// file that fails to parse or validate is still an error.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Save writes cfg as TOML to path. The file is written to a temporary file
// in the same directory and renamed into place.
func Save(path string, cfg Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("# chronos configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// Normalize trims whitespace and lowercases the enumerated fields.
func (c *Config) Normalize() {
	c.DatabasePath = strings.TrimSpace(c.DatabasePath)
	c.Timezone = strings.TrimSpace(c.Timezone)
	c.TriggerLabel = strings.TrimSpace(c.TriggerLabel)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Theme = strings.TrimSpace(c.Theme)

	kinds := make([]string, 0, len(c.DrinkKinds))
	seen := make(map[string]bool, len(c.DrinkKinds))
	for _, k := range c.DrinkKinds {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	c.DrinkKinds = kinds
}

// Validate checks the config values.
func (c Config) Validate() error {
	if c.Timezone != "" {
		if _, err := timeutil.LoadLocation(c.Timezone); err != nil {
			return err
		}
	}
	if c.TriggerLabel == "" {
		return fmt.Errorf("invalid trigger_label: must not be empty")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Location returns the configured timezone.
func (c Config) Location() (*time.Location, error) {
	return timeutil.LoadLocation(c.Timezone)
}

// ResolveDatabasePath returns database_path, or the default storage path
// when it is not set.
func (c Config) ResolveDatabasePath() (string, error) {
	if c.DatabasePath != "" {
		return c.DatabasePath, nil
	}
	return storage.GetStoragePath()
}

// AllowsDrink reports whether kind is accepted by the drink_kinds allow-list.
func (c Config) AllowsDrink(kind string) bool {
	if len(c.DrinkKinds) == 0 {
		return true
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	for _, k := range c.DrinkKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ParseLogLevel maps a log_level value to a slog level. Empty means warn.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log_level %q: must be one of %s", s, strings.Join(LogLevels, ", "))
}

// NewLogger builds a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
