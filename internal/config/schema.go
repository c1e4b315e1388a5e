package config

// Config is the root configuration structure.
type Config struct {
	Library LibraryConfig `toml:"library" json:"library"`
	Audio   AudioConfig   `toml:"audio" json:"audio"`
	TUI     TUIConfig     `toml:"tui" json:"tui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// LibraryConfig holds music folder settings.
type LibraryConfig struct {
	Root       string   `toml:"root" json:"root"`
	Extensions []string `toml:"extensions" json:"extensions"`
	Watch      bool     `toml:"watch" json:"watch"`
}

// AudioConfig holds audio engine settings.
type AudioConfig struct {
	SampleRate int     `toml:"sample_rate" json:"sample_rate"`
	BufferMs   int     `toml:"buffer_ms" json:"buffer_ms"`
	Volume     float64 `toml:"volume" json:"volume"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme" json:"theme"`
	RefreshInterval int    `toml:"refresh_interval" json:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `toml:"level" json:"level"`
	File       string `toml:"file" json:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" json:"max_age_days"`
	Compress   bool   `toml:"compress" json:"compress"`
}
