// Package config loads and saves the tracker's TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration, persisted as TOML under the
// tracker's data directory.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	List     ListConfig     `toml:"list"`
}

// DatabaseConfig controls the SQLite store.
type DatabaseConfig struct {
	// Path to the database file. Empty means <data dir>/decks.db.
	Path string `toml:"path"`

	BusyTimeoutMS int    `toml:"busy_timeout_ms"`
	JournalMode   string `toml:"journal_mode"`
	Synchronous   string `toml:"synchronous"`
}

// LogConfig controls logging output.
type LogConfig struct {
	// Level is a logrus level name: debug, info, warn, error.
	Level string `toml:"level"`
	// Format is "text" or "json".
	Format string `toml:"format"`
}

// ListConfig holds sticky deck list preferences.
type ListConfig struct {
	SortKey       string `toml:"sort_key"`
	SortDirection string `toml:"sort_direction"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			BusyTimeoutMS: 5000,
			JournalMode:   "WAL",
			Synchronous:   "NORMAL",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		List: ListConfig{
			SortKey:       "name",
			SortDirection: "asc",
		},
	}
}

// DataDir returns the tracker's data directory, ~/.deck-tracker.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".deck-tracker"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config at path, falling back to defaults when the file does
// not exist. Missing fields take their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	switch c.Database.JournalMode {
	case "", "WAL", "DELETE", "TRUNCATE", "MEMORY":
	default:
		return fmt.Errorf("invalid journal mode %q", c.Database.JournalMode)
	}
	switch c.List.SortDirection {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("invalid sort direction %q", c.List.SortDirection)
	}
	return nil
}

// DatabasePath resolves the configured database file, defaulting to
// decks.db under the data directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "decks.db"), nil
}
