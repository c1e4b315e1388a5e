package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.deckrc, $XDG_CONFIG_HOME/deck/config.toml, ~/.config/deck/config.toml
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return load(path)
}

func load(path string) (*Config, error) {
	// 0 is a valid (muted) volume, so it is seeded here rather than in ApplyDefaults.
	cfg := &Config{Audio: AudioConfig{Volume: Default().Audio.Volume}}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// .env never overrides variables that are already set.
	_ = godotenv.Load()

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// Path returns the config file that Load would read, or the default
// location for a new one.
func Path() string {
	if p := findConfigFile(); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".deckrc"
	}
	return filepath.Join(home, ".deckrc")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".deckrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "deck", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Library
	if v := os.Getenv("DECK_LIBRARY_ROOT"); v != "" {
		cfg.Library.Root = v
	}
	if v := os.Getenv("DECK_LIBRARY_EXTENSIONS"); v != "" {
		cfg.Library.Extensions = splitList(v)
	}
	if v := os.Getenv("DECK_LIBRARY_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Library.Watch = b
		}
	}

	// Audio
	if v := os.Getenv("DECK_AUDIO_SAMPLE_RATE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Audio.SampleRate = i
		}
	}
	if v := os.Getenv("DECK_AUDIO_BUFFER_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Audio.BufferMs = i
		}
	}
	if v := os.Getenv("DECK_AUDIO_VOLUME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Audio.Volume = f
		}
	}

	// TUI
	if v := os.Getenv("DECK_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("DECK_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("DECK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DECK_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
