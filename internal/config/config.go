// Package config handles per-project modeler configuration (modeler.toml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/modeler/internal/atomicfile"
)

// FileName is the configuration file looked up in the project directory.
const FileName = "modeler.toml"

// Config represents the project configuration.
type Config struct {
	// SchemaFile is the persisted document, relative to the project
	// directory. A .yaml or .yml extension selects YAML.
	SchemaFile string `toml:"schema_file"`

	// Migrations controls migration script generation.
	Migrations MigrationsConfig `toml:"migrations"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`

	// Log controls diagnostic logging.
	Log LogConfig `toml:"log"`
}

// MigrationsConfig configures the migration emitter.
type MigrationsConfig struct {
	// Dialect is the SQL dialect of generated scripts: postgres or sqlite.
	Dialect string `toml:"dialect"`

	// Name is slugged into the script file names.
	Name string `toml:"name"`

	// Verify dry-runs the forward and backward scripts on SQLite after each
	// regeneration. Defaults to true.
	Verify *bool `toml:"verify"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for prompts and rendered markdown.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{}
}

// Load loads dir/modeler.toml, returning defaults if it doesn't exist.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}
	return &config, nil
}

// SchemaPath resolves the document path against the project directory.
func (c *Config) SchemaPath(dir string, fallback string) string {
	name := strings.TrimSpace(c.SchemaFile)
	if name == "" {
		name = fallback
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// Dialect returns the configured migration dialect, postgres by default.
func (c *Config) Dialect() string {
	if d := strings.TrimSpace(c.Migrations.Dialect); d != "" {
		return d
	}
	return "postgres"
}

// MigrationName returns the configured migration name, or fallback.
func (c *Config) MigrationName(fallback string) string {
	if n := strings.TrimSpace(c.Migrations.Name); n != "" {
		return n
	}
	return fallback
}

// VerifyMigrations reports whether scripts are dry-run after generation.
func (c *Config) VerifyMigrations() bool {
	return c.Migrations.Verify == nil || *c.Migrations.Verify
}

// LogLevel returns the configured log level, info by default.
func (c *Config) LogLevel() string {
	if l := strings.TrimSpace(c.Log.Level); l != "" {
		return strings.ToLower(l)
	}
	return "info"
}

// DefaultTemplate is written by CreateDefault.
const DefaultTemplate = `# modeler configuration

# Persisted data model (.json, or .yaml/.yml for YAML)
# schema_file = "datamodel.json"

# [migrations]
# dialect = "postgres"   # postgres | sqlite
# name = "datamodel"     # slugged into migration file names
# verify = true          # dry-run scripts on an in-memory SQLite database

# [ui]
# accent = "39"

# [log]
# level = "info"
`

// CreateDefault writes the commented template to path unless a file is
// already there. It reports whether it wrote one.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := atomicfile.WriteFileAll(path, []byte(DefaultTemplate), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
