// Package config loads happy-days settings from defaults, an optional YAML
// file, a .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvDir         = "HAPPY_DAYS_DIR"
	EnvIndex       = "HAPPY_DAYS_INDEX"
	EnvTranscriber = "HAPPY_DAYS_TRANSCRIBER"
	EnvThumbWidth  = "HAPPY_DAYS_THUMB_WIDTH"
)

// Config holds all settings.
type Config struct {
	// Dir holds the memory artifacts.
	Dir string `yaml:"dir"`
	// IndexPath is the SQLite search index.
	IndexPath     string        `yaml:"index"`
	ThumbWidth    int           `yaml:"thumb_width"`
	JPEGQuality   int           `yaml:"jpeg_quality"`
	ScratchName   string        `yaml:"scratch_name"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`

	Transcriber TranscriberConfig `yaml:"transcriber"`
}

// TranscriberConfig configures the external speech recognizer.
type TranscriberConfig struct {
	// Command is run with the audio path substituted for {audio}.
	Command string        `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
}

// Home returns the default base directory, ~/.happy-days.
func Home() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".happy-days")
}

// Default returns the built-in settings.
func Default() *Config {
	base := Home()
	return &Config{
		Dir:           filepath.Join(base, "memories"),
		IndexPath:     filepath.Join(base, "index.db"),
		ThumbWidth:    200,
		JPEGQuality:   80,
		ScratchName:   "recording.m4a",
		WatchDebounce: 300 * time.Millisecond,
		Transcriber: TranscriberConfig{
			Timeout: 5 * time.Minute,
		},
	}
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(Home(), "config.yaml")
}

// Load builds the configuration. A missing file at the default path is
// fine; a missing file that was asked for explicitly is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDir); v != "" {
		c.Dir = v
	}
	if v := os.Getenv(EnvIndex); v != "" {
		c.IndexPath = v
	}
	if v := os.Getenv(EnvTranscriber); v != "" {
		c.Transcriber.Command = v
	}
	if v := os.Getenv(EnvThumbWidth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvThumbWidth, err)
		}
		c.ThumbWidth = n
	}
	return nil
}

// Validate checks the settings for values the store cannot work with.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return errors.New("config: dir is required")
	}
	if c.IndexPath == "" {
		return errors.New("config: index is required")
	}
	if c.ThumbWidth <= 0 {
		return fmt.Errorf("config: thumb_width must be positive, got %d", c.ThumbWidth)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("config: jpeg_quality must be 1-100, got %d", c.JPEGQuality)
	}
	if c.ScratchName == "" || filepath.Base(c.ScratchName) != c.ScratchName {
		return fmt.Errorf("config: scratch_name must be a plain file name, got %q", c.ScratchName)
	}
	return nil
}

// ScratchPath is where a new recording is staged before it is attached.
func (c *Config) ScratchPath() string {
	return filepath.Join(c.Dir, c.ScratchName)
}
