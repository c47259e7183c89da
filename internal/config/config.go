package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/olivier-w/timeline/internal/visualizer"
	"gopkg.in/yaml.v3"
)

const (
	appName        = "timeline"
	configFilename = "config.yaml"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the application configuration.
type Config struct {
	User          string     `yaml:"user"`
	RecordingsDir string     `yaml:"recordings_dir"`
	ImagesDir     string     `yaml:"images_dir"`
	LogFile       string     `yaml:"log_file"`
	LogLevel      string     `yaml:"log_level"`
	Visualizer    Visualizer `yaml:"visualizer"`
}

// Visualizer holds the level visualizer settings.
type Visualizer struct {
	BarWidth     float64       `yaml:"bar_width"`
	CornerRadius float64       `yaml:"corner_radius"`
	BarSpacing   float64       `yaml:"bar_spacing"`
	BarColor     Color         `yaml:"bar_color"`
	DecaySpeed   time.Duration `yaml:"decay_speed"`
	DecayAmount  float64       `yaml:"decay_amount"`
}

// Default returns the built-in configuration.
func Default() *Config {
	d := visualizer.DefaultConfig()
	return &Config{
		User:          os.Getenv("USER"),
		RecordingsDir: filepath.Join(dataDir(), "recordings"),
		ImagesDir:     filepath.Join(dataDir(), "images"),
		LogLevel:      "info",
		Visualizer: Visualizer{
			BarWidth:     d.BarWidth,
			CornerRadius: d.CornerRadius,
			BarSpacing:   d.BarSpacing,
			BarColor:     Color(d.BarColor),
			DecaySpeed:   d.DecaySpeed,
			DecayAmount:  d.DecayAmount,
		},
	}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return configFilename
	}
	return filepath.Join(dir, appName, configFilename)
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

// Load reads the YAML file at path over the defaults. A missing file yields
// the defaults along with an error wrapping fs.ErrNotExist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	log.Debug("config loaded", "path", path)
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate reports the first setting the visualizer or logger cannot use.
func (c *Config) Validate() error {
	v := c.Visualizer
	switch {
	case v.DecayAmount <= 0 || v.DecayAmount >= 1:
		return fmt.Errorf("%w: decay_amount %v must be between 0 and 1", ErrInvalid, v.DecayAmount)
	case v.DecaySpeed <= 0:
		return fmt.Errorf("%w: decay_speed %v must be positive", ErrInvalid, v.DecaySpeed)
	case v.BarWidth <= 0:
		return fmt.Errorf("%w: bar_width %v must be positive", ErrInvalid, v.BarWidth)
	case v.BarSpacing < 0:
		return fmt.Errorf("%w: bar_spacing %v must not be negative", ErrInvalid, v.BarSpacing)
	case c.RecordingsDir == "":
		return fmt.Errorf("%w: recordings_dir is empty", ErrInvalid)
	case c.ImagesDir == "":
		return fmt.Errorf("%w: images_dir is empty", ErrInvalid)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
	}
	return nil
}

// Decay converts the visualizer block into visualizer settings.
func (v Visualizer) Decay() visualizer.Config {
	return visualizer.Config{
		BarWidth:     v.BarWidth,
		CornerRadius: v.CornerRadius,
		BarSpacing:   v.BarSpacing,
		BarColor:     v.BarColor.Lipgloss(),
		DecaySpeed:   v.DecaySpeed,
		DecayAmount:  v.DecayAmount,
	}
}
