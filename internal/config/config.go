// Package config loads and validates the huntboard configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Submission SubmissionConfig `yaml:"submission"`
	Photo      PhotoConfig      `yaml:"photo"`
	Backup     BackupConfig     `yaml:"backup"`
	NATS       NATSConfig       `yaml:"nats"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig configures the HTTP API for the presentation layer.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig selects and locates the key-value backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path"`    // base directory (file) or database file (sqlite)
}

// SubmissionConfig points at the remote endpoint completed hunts post to.
type SubmissionConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// PhotoConfig tunes the stored-photo encode.
type PhotoConfig struct {
	Quality int `yaml:"quality"` // JPEG quality 1-100
}

// BackupConfig schedules periodic copies of the persisted state.
type BackupConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	Keep     int           `yaml:"keep"`
}

// UnmarshalYAML accepts human-readable durations ("30m", "1h") for the
// backup interval, leaving defaults in place for omitted keys.
func (b *BackupConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Enabled  *bool  `yaml:"enabled"`
		Interval string `yaml:"interval"`
		Keep     *int   `yaml:"keep"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Enabled != nil {
		b.Enabled = *raw.Enabled
	}
	if raw.Interval != "" {
		d, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return fmt.Errorf("backup.interval: %w", err)
		}
		b.Interval = d
	}
	if raw.Keep != nil {
		b.Keep = *raw.Keep
	}
	return nil
}

// NATSConfig configures the optional NATS mirror of hunt events.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
	Stream  string `yaml:"stream"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8473"},
		Storage: StorageConfig{Backend: "file", Path: ".huntboard"},
		Photo:   PhotoConfig{Quality: 70},
		Backup:  BackupConfig{Enabled: true, Interval: time.Hour, Keep: 10},
		NATS: NATSConfig{
			URL:     "nats://127.0.0.1:4222",
			Subject: "huntboard.events",
			Stream:  "HUNTBOARD",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads the configuration file, applies environment overrides and
// validates the result. A missing file falls back to defaults so read-only
// commands work without any setup.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304 - user-chosen config path
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("storage.backend must be \"file\" or \"sqlite\", got %q", c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	if c.Photo.Quality < 1 || c.Photo.Quality > 100 {
		return fmt.Errorf("photo.quality must be within 1-100, got %d", c.Photo.Quality)
	}
	if c.Backup.Enabled {
		if c.Backup.Interval < time.Minute {
			return fmt.Errorf("backup.interval must be at least 1m, got %s", c.Backup.Interval)
		}
		if c.Backup.Keep < 1 {
			return fmt.Errorf("backup.keep must be at least 1, got %d", c.Backup.Keep)
		}
	}
	if c.NATS.Enabled {
		if c.NATS.URL == "" || c.NATS.Subject == "" || c.NATS.Stream == "" {
			return fmt.Errorf("nats.url, nats.subject and nats.stream are required when nats.enabled")
		}
	}
	return nil
}

// sampleConfig is written by Init as a starting point.
const sampleConfig = `# Huntboard configuration

server:
  addr: ":8473"

storage:
  # "file" keeps one file per key under path; "sqlite" uses a single database file.
  backend: file
  path: .huntboard

submission:
  # Leave empty to use the built-in endpoint.
  endpoint: ""

photo:
  quality: 70

backup:
  enabled: true
  interval: 1h
  keep: 10

nats:
  enabled: false
  url: nats://127.0.0.1:4222
  subject: huntboard.events
  stream: HUNTBOARD

logging:
  level: info
  format: text
`

// Init writes a sample configuration file.
func Init(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
