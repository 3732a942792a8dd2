// Package config handles simulator configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/skelanim/internal/engine/animation"
)

// Config holds all simulator settings.
type Config struct {
	Animation  AnimationConfig  `yaml:"animation"`
	Simulation SimulationConfig `yaml:"simulation"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AnimationConfig holds evaluation settings.
type AnimationConfig struct {
	BlendThreshold    float32 `yaml:"blend_threshold"`
	Crossfade         string  `yaml:"crossfade"`          // auto, direct or triangular
	DefaultTransition float32 `yaml:"default_transition"` // seconds, for edges without a duration
}

// SimulationConfig holds headless run settings.
type SimulationConfig struct {
	Rig        string  `yaml:"rig"`
	Frames     int     `yaml:"frames"`
	Timestep   float32 `yaml:"timestep"`
	PrintEvery int     `yaml:"print_every"`
	DumpDir    string  `yaml:"dump_dir"`
}

// MetricsConfig holds Prometheus exporter settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Animation: AnimationConfig{
			BlendThreshold:    0.01,
			Crossfade:         "auto",
			DefaultTransition: 0.25,
		},
		Simulation: SimulationConfig{
			Rig:        "rig.yaml",
			Frames:     300,
			Timestep:   1.0 / 60.0,
			PrintEvery: 30,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":2112",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// CrossfadePolicy parses Animation.Crossfade.
func (c *Config) CrossfadePolicy() (animation.Crossfade, error) {
	return animation.ParseCrossfade(c.Animation.Crossfade)
}

// Validate checks values that would make a run meaningless.
func (c *Config) Validate() error {
	if c.Animation.BlendThreshold < 0 || c.Animation.BlendThreshold >= 1 {
		return fmt.Errorf("animation.blend_threshold must be in [0,1), got %v", c.Animation.BlendThreshold)
	}
	if c.Animation.DefaultTransition < 0 {
		return fmt.Errorf("animation.default_transition must not be negative, got %v", c.Animation.DefaultTransition)
	}
	if _, err := c.CrossfadePolicy(); err != nil {
		return fmt.Errorf("animation.crossfade: %w", err)
	}
	if c.Simulation.Timestep <= 0 {
		return fmt.Errorf("simulation.timestep must be positive, got %v", c.Simulation.Timestep)
	}
	if c.Simulation.Frames < 0 {
		return fmt.Errorf("simulation.frames must not be negative, got %d", c.Simulation.Frames)
	}
	return nil
}
