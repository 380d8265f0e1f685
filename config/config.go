// Package config handles engine tuning configuration.
//
// Config is stored at $XDG_CONFIG_HOME/devview/config.yaml (defaults to
// ~/.config/devview/config.yaml). Unlike a daemon connection config, this
// file tunes the in-process reconciliation engine itself: enrichment
// timeouts and channel buffer sizes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Enrichment controls the container-runtime inspection enricher.
type Enrichment struct {
	Timeout      time.Duration `yaml:"timeout"`
	DockerBinary string        `yaml:"docker_binary"`
}

// Channels controls buffering of the per-subscriber fan-out channels.
// MergedBuffer is loaded and saved but not read by the engine: the merged
// watch channel is always an unbounded queue.
type Channels struct {
	MergedBuffer     int `yaml:"merged_buffer"`
	SubscriberBuffer int `yaml:"subscriber_buffer"`
}

// Config holds engine tuning knobs.
type Config struct {
	Enrichment Enrichment `yaml:"enrichment"`
	Channels   Channels   `yaml:"channels"`
}

// Default returns the engine's built-in tuning defaults.
func Default() Config {
	return Config{
		Enrichment: Enrichment{
			Timeout:      30 * time.Second,
			DockerBinary: "docker",
		},
		Channels: Channels{
			MergedBuffer:     0,
			SubscriberBuffer: 128,
		},
	}
}

// Path returns the config file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/devview/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "devview", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "devview", "config.yaml")
}

// Load reads the config file, filling in defaults for unset fields. If the
// file does not exist, the built-in defaults are returned (not an error).
func Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return normalize(cfg), nil
}

// Save writes the config to disk, creating directories as needed.
func (c Config) Save() error {
	p := Path()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func normalize(cfg Config) Config {
	def := Default()
	if cfg.Enrichment.Timeout <= 0 {
		cfg.Enrichment.Timeout = def.Enrichment.Timeout
	}
	if cfg.Enrichment.DockerBinary == "" {
		cfg.Enrichment.DockerBinary = def.Enrichment.DockerBinary
	}
	if cfg.Channels.SubscriberBuffer <= 0 {
		cfg.Channels.SubscriberBuffer = def.Channels.SubscriberBuffer
	}
	return cfg
}
