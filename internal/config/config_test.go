package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Database.JournalMode != "WAL" {
		t.Errorf("JournalMode = %q, want WAL", cfg.Database.JournalMode)
	}
	if cfg.List.SortKey != "name" || cfg.List.SortDirection != "asc" {
		t.Errorf("List = %+v, want name/asc", cfg.List)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Database.Path = "/tmp/custom.db"
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"
	cfg.List.SortKey = "winrate"
	cfg.List.SortDirection = "desc"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Database.Path != "/tmp/custom.db" {
		t.Errorf("Database.Path = %q", loaded.Database.Path)
	}
	if loaded.Log.Level != "debug" || loaded.Log.Format != "json" {
		t.Errorf("Log = %+v", loaded.Log)
	}
	if loaded.List.SortKey != "winrate" || loaded.List.SortDirection != "desc" {
		t.Errorf("List = %+v", loaded.List)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[log]\nlevel = \"warn\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Database.JournalMode != "WAL" {
		t.Errorf("unset field lost default: JournalMode = %q", cfg.Database.JournalMode)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"bad journal mode", func(c *Config) { c.Database.JournalMode = "OFF" }, true},
		{"bad sort direction", func(c *Config) { c.List.SortDirection = "sideways" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadInvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[log]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() accepted invalid log format")
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Path = "/data/decks.db"
	got, err := cfg.DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath() error = %v", err)
	}
	if got != "/data/decks.db" {
		t.Errorf("DatabasePath() = %q", got)
	}

	cfg.Database.Path = ""
	got, err = cfg.DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath() error = %v", err)
	}
	if filepath.Base(got) != "decks.db" {
		t.Errorf("default DatabasePath() = %q, want .../decks.db", got)
	}
}
