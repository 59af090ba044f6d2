// Package config assembles runtime settings from defaults, an optional YAML
// file and NEONSNAKE_* environment variables. Command-line flags are applied
// last by the binaries.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brensch/neonsnake/logging"
	"github.com/brensch/neonsnake/rules"
	"github.com/brensch/neonsnake/store"
)

const (
	UITerminal = "tui"
	UIWeb      = "web"
)

type Store struct {
	Kind store.Kind `yaml:"kind"`
	Path string     `yaml:"path"`
	Key  string     `yaml:"key"`
}

type Log struct {
	Level  string         `yaml:"level"`
	Format logging.Format `yaml:"format"`
	// File receives logs instead of stderr. The terminal UI needs this to
	// keep the alt screen clean.
	File string `yaml:"file"`
}

type Config struct {
	Game   rules.Config `yaml:"game"`
	UI     string       `yaml:"ui"`
	Listen string       `yaml:"listen"`
	Store  Store        `yaml:"store"`
	Log    Log          `yaml:"log"`
	Sound  bool         `yaml:"sound"`
	Volume float64      `yaml:"volume"`
	// Seed fixes food placement. Zero seeds from the clock.
	Seed int64 `yaml:"seed"`
}

func Default() Config {
	return Config{
		Game:   rules.DefaultConfig(),
		UI:     UITerminal,
		Listen: ":8080",
		Store: Store{
			Kind: store.KindSQLite,
			Path: "neonsnake.db",
			Key:  store.DefaultKey,
		},
		Log: Log{
			Level:  "info",
			Format: logging.FormatPretty,
		},
		Sound:  true,
		Volume: 0.3,
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path is
// non-empty) and then the environment. A missing file is an error only when
// a path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config file %s not found", path)
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	switch c.UI {
	case UITerminal, UIWeb:
	default:
		return fmt.Errorf("ui must be %q or %q, got %q", UITerminal, UIWeb, c.UI)
	}
	if c.UI == UIWeb && c.Listen == "" {
		return fmt.Errorf("listen address is required for the web ui")
	}
	switch c.Store.Kind {
	case store.KindMemory:
	case store.KindSQLite, store.KindFile:
		if c.Store.Path == "" {
			return fmt.Errorf("store path is required for %s store", c.Store.Kind)
		}
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case logging.FormatPretty, logging.FormatJSON, logging.FormatText:
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume must be within [0, 1], got %g", c.Volume)
	}
	return nil
}
