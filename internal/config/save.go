package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/modeler/internal/atomicfile"
)

type persistedConfig struct {
	SchemaFile *string              `toml:"schema_file,omitempty"`
	Migrations *persistedMigrations `toml:"migrations,omitempty"`
	UI         *persistedUISettings `toml:"ui,omitempty"`
	Log        *persistedLog        `toml:"log,omitempty"`
}

type persistedMigrations struct {
	Dialect *string `toml:"dialect,omitempty"`
	Name    *string `toml:"name,omitempty"`
	Verify  *bool   `toml:"verify,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

type persistedLog struct {
	Level *string `toml:"level,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the config to a specific path atomically. Unset values are
// omitted so defaults keep applying.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = Default()
	}

	out := persistedConfig{SchemaFile: nonEmptyPtr(cfg.SchemaFile)}

	m := persistedMigrations{
		Dialect: nonEmptyPtr(cfg.Migrations.Dialect),
		Name:    nonEmptyPtr(cfg.Migrations.Name),
		Verify:  cfg.Migrations.Verify,
	}
	if m.Dialect != nil || m.Name != nil || m.Verify != nil {
		out.Migrations = &m
	}
	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}
	if level := nonEmptyPtr(cfg.Log.Level); level != nil {
		out.Log = &persistedLog{Level: level}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomicfile.WriteFileAll(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
