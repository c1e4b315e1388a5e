package config

// DefaultExtensions are the file suffixes the library accepts.
var DefaultExtensions = []string{".wav", ".mp3", ".flac", ".ogg"}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Library: LibraryConfig{
			Extensions: append([]string(nil), DefaultExtensions...),
			Watch:      true,
		},
		Audio: AudioConfig{
			SampleRate: 44100,
			BufferMs:   100,
			Volume:     0.1,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 50,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Library
	if len(c.Library.Extensions) == 0 {
		c.Library.Extensions = d.Library.Extensions
	}

	// Audio
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = d.Audio.SampleRate
	}
	if c.Audio.BufferMs == 0 {
		c.Audio.BufferMs = d.Audio.BufferMs
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = d.Log.MaxAgeDays
	}
}
