package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SurfaceExtension = "extension"
	SurfacePage      = "page"

	DefaultMaxSessions    = 10000
	DefaultSyncInterval   = 5 * time.Minute
	DefaultExportPrefix   = "gmat-study-data"
	DefaultBreakerFails   = 3
	DefaultBreakerTimeout = 30 * time.Second
	DefaultLogLevel       = "warn"
	fileName              = "config.yaml"
)

type Config struct {
	DataDir      string         `yaml:"-"`
	Surface      string         `yaml:"surface"`
	Backends     BackendsConfig `yaml:"backends"`
	WeekStartDay int            `yaml:"week_start_day"`
	Timezone     string         `yaml:"timezone"`
	LogLevel     string         `yaml:"log_level"`
	Storage      StorageConfig  `yaml:"storage"`
	Sync         SyncConfig     `yaml:"sync"`
	Breaker      BreakerConfig  `yaml:"breaker"`
	Export       ExportConfig   `yaml:"export"`
}

type BackendsConfig struct {
	Extension ExtensionBackend `yaml:"extension"`
	Page      PageBackend      `yaml:"page"`
}

type ExtensionBackend struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

type PageBackend struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

type StorageConfig struct {
	MaxSessions int `yaml:"max_sessions"`
}

type SyncConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type BreakerConfig struct {
	Failures uint32        `yaml:"failures"`
	Timeout  time.Duration `yaml:"timeout"`
}

type ExportConfig struct {
	Prefix string `yaml:"prefix"`
}

// Default returns the configuration used when no file is present.
func Default(dataDir string) Config {
	return Config{
		DataDir: dataDir,
		Surface: SurfaceExtension,
		Backends: BackendsConfig{
			Extension: ExtensionBackend{Enabled: true, Dir: filepath.Join(dataDir, "extension")},
			Page:      PageBackend{Enabled: true, DBPath: filepath.Join(dataDir, "page", "studytrack.db")},
		},
		Timezone: "auto",
		LogLevel: DefaultLogLevel,
		Storage:  StorageConfig{MaxSessions: DefaultMaxSessions},
		Sync:     SyncConfig{Interval: DefaultSyncInterval},
		Breaker:  BreakerConfig{Failures: DefaultBreakerFails, Timeout: DefaultBreakerTimeout},
		Export:   ExportConfig{Prefix: DefaultExportPrefix},
	}
}

// Load reads path (or <dataDir>/config.yaml when path is empty) over the defaults.
// A missing file is not an error.
func Load(dataDir, path string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Default(dataDir)
	if path == "" {
		path = filepath.Join(dataDir, fileName)
	}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	applyEnv(&cfg)
	cfg.resolvePaths()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("STUDYTRACK_SURFACE")); v != "" {
		cfg.Surface = v
	}
	if v := strings.TrimSpace(os.Getenv("STUDYTRACK_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("STUDYTRACK_TIMEZONE")); v != "" {
		cfg.Timezone = v
	}
}

func (c *Config) resolvePaths() {
	if c.Backends.Extension.Dir != "" && !filepath.IsAbs(c.Backends.Extension.Dir) {
		c.Backends.Extension.Dir = filepath.Join(c.DataDir, c.Backends.Extension.Dir)
	}
	if c.Backends.Page.DBPath != "" && !filepath.IsAbs(c.Backends.Page.DBPath) {
		c.Backends.Page.DBPath = filepath.Join(c.DataDir, c.Backends.Page.DBPath)
	}
}

func (c Config) Validate() error {
	if c.Surface != SurfaceExtension && c.Surface != SurfacePage {
		return fmt.Errorf("surface must be %q or %q, got %q", SurfaceExtension, SurfacePage, c.Surface)
	}
	if !c.Backends.Extension.Enabled && !c.Backends.Page.Enabled {
		return fmt.Errorf("at least one backend must be enabled")
	}
	if c.Surface == SurfaceExtension && !c.Backends.Extension.Enabled {
		return fmt.Errorf("surface %q requires the extension backend", c.Surface)
	}
	if c.Surface == SurfacePage && !c.Backends.Page.Enabled {
		return fmt.Errorf("surface %q requires the page backend", c.Surface)
	}
	if c.WeekStartDay < 0 || c.WeekStartDay > 6 {
		return fmt.Errorf("week_start_day must be between 0 and 6")
	}
	if c.Storage.MaxSessions <= 0 {
		return fmt.Errorf("storage.max_sessions must be positive")
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync.interval must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the timezone used for calendar-day projection.
func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || tz == "auto" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return loc, nil
}

func (c Config) WeekStart() time.Weekday {
	return time.Weekday(c.WeekStartDay)
}
