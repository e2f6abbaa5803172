package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user configuration persisted as YAML. Environment
// variables override file values at load time and are never written back.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Rough         RoughConfig   `yaml:"rough"`
	Share         ShareConfig   `yaml:"share"`
	Logging       LoggingConfig `yaml:"logging"`
}

type GeneralConfig struct {
	DefaultTool  string  `yaml:"default_tool"` // select | line | rectangle
	WindowWidth  float32 `yaml:"window_width"`
	WindowHeight float32 `yaml:"window_height"`
}

// RoughConfig tunes the hand-drawn look. Seed 0 picks a random seed per run.
type RoughConfig struct {
	Roughness   float64 `yaml:"roughness"`
	Bowing      float64 `yaml:"bowing"`
	StrokeWidth float64 `yaml:"stroke_width"`
	CurveSteps  int     `yaml:"curve_steps"`
	Seed        uint64  `yaml:"seed"`
}

type ShareConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
	MDNS    bool `yaml:"mdns"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{DefaultTool: "line", WindowWidth: 1024, WindowHeight: 768},
		Rough:         RoughConfig{Roughness: 1, Bowing: 1, StrokeWidth: 1.5, CurveSteps: 10},
		Share:         ShareConfig{Enabled: true, Port: 8899, MDNS: true},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Environment overrides.
const (
	EnvSharePort   = "SKB_SHARE_PORT"
	EnvShare       = "SKB_SHARE"
	EnvRoughness   = "SKB_ROUGHNESS"
	EnvSeed        = "SKB_SEED"
	EnvDefaultTool = "SKB_DEFAULT_TOOL"
	EnvLogLevel    = "SKB_LOG_LEVEL"
	EnvLogFormat   = "SKB_LOG_FORMAT"
	EnvLogSource   = "SKB_LOG_SOURCE"
	EnvLogFile     = "SKB_LOG_FILE"
)

// DefaultPath returns <user config dir>/sketchboard/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "sketchboard", "config.yaml"), nil
}

// Load reads the YAML file at path on top of the defaults and applies
// environment overrides. A missing file is not an error. A malformed file
// yields the defaults (plus env overrides) together with the parse error.
func Load(path string) (AppConfig, error) {
	cfg := Defaults()
	var loadErr error
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			loadErr = fmt.Errorf("read config %s: %w", path, err)
		default:
			fileCfg := Defaults()
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				loadErr = fmt.Errorf("parse config %s: %w", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}
	applyEnvOverrides(&cfg)
	cfg.normalize()
	return cfg, loadErr
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv(EnvSharePort); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Share.Port = n
		}
	}
	if v := os.Getenv(EnvShare); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Share.Enabled = b
		}
	}
	if v := os.Getenv(EnvRoughness); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Rough.Roughness = f
		}
	}
	if v := os.Getenv(EnvSeed); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Rough.Seed = n
		}
	}
	if v := os.Getenv(EnvDefaultTool); v != "" {
		cfg.General.DefaultTool = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvLogSource); v != "" {
		cfg.Logging.Source = strings.EqualFold(v, "true")
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Logging.File = v
	}
}

// normalize replaces out-of-range values with defaults.
func (c *AppConfig) normalize() {
	d := Defaults()
	switch strings.ToLower(strings.TrimSpace(c.General.DefaultTool)) {
	case "select", "line", "rectangle":
		c.General.DefaultTool = strings.ToLower(strings.TrimSpace(c.General.DefaultTool))
	default:
		c.General.DefaultTool = d.General.DefaultTool
	}
	if c.General.WindowWidth <= 0 || c.General.WindowHeight <= 0 {
		c.General.WindowWidth, c.General.WindowHeight = d.General.WindowWidth, d.General.WindowHeight
	}
	if c.Rough.Roughness < 0 {
		c.Rough.Roughness = 0
	}
	if c.Rough.StrokeWidth <= 0 {
		c.Rough.StrokeWidth = d.Rough.StrokeWidth
	}
	if c.Rough.CurveSteps <= 0 {
		c.Rough.CurveSteps = d.Rough.CurveSteps
	}
	if c.Share.Port <= 0 || c.Share.Port > 65535 {
		c.Share.Port = d.Share.Port
	}
}
