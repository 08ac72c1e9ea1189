package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	View    ViewConfig    `toml:"view"`
	Data    DataConfig    `toml:"data"`
	Logging LoggingConfig `toml:"logging"`
	Spawn   []SpawnConfig `toml:"spawn"`
}

type EngineConfig struct {
	FrameRate     time.Duration `toml:"frame_rate"`
	MaxComponents int           `toml:"max_components"`
	MaxSystems    int           `toml:"max_systems"`
	Frames        int           `toml:"frames"` // stop after this many frames; 0 runs until signalled
}

type ViewConfig struct {
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type DataConfig struct {
	Templates string `toml:"templates"`
	Scripts   string `toml:"scripts"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// SpawnConfig places Count entities of Template in the first world.
type SpawnConfig struct {
	Template string `toml:"template"`
	ID       string `toml:"id"`
	Count    int    `toml:"count"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Engine.FrameRate <= 0 {
		return fmt.Errorf("engine.frame_rate must be positive")
	}
	if c.Engine.MaxComponents <= 0 || c.Engine.MaxSystems <= 0 {
		return fmt.Errorf("engine.max_components and engine.max_systems must be positive")
	}
	for i, s := range c.Spawn {
		if s.Template == "" {
			return fmt.Errorf("spawn[%d]: missing template", i)
		}
		if s.Count < 0 {
			return fmt.Errorf("spawn[%d]: negative count", i)
		}
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			FrameRate:     time.Second / 60,
			MaxComponents: 64,
			MaxSystems:    32,
		},
		View: ViewConfig{
			Width:  320,
			Height: 240,
		},
		Data: DataConfig{
			Templates: "data/templates.yaml",
			Scripts:   "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
