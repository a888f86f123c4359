// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/taper/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Targets  TargetsConfig  `toml:"targets"`
	Features FeaturesConfig `toml:"features"`
	Server   ServerConfig   `toml:"server"`
	Store    StoreConfig    `toml:"store"`
	Log      LogConfig      `toml:"log"`
}

// TargetsConfig maps daily goals.
type TargetsConfig struct {
	Beers    *int     `toml:"beers"`
	Walk     *float64 `toml:"walk"`
	Sleep    *float64 `toml:"sleep"`
	Water    *float64 `toml:"water"`
	PlanDays *int     `toml:"plan-days"`
}

// FeaturesConfig maps optional schema fields and curves.
type FeaturesConfig struct {
	TrackWater *bool `toml:"track-water"`
	ShowCurves *bool `toml:"show-curves"`
}

// ServerConfig maps HTTP settings.
type ServerConfig struct {
	Addr *string `toml:"addr"`
}

// StoreConfig maps persistence settings.
type StoreConfig struct {
	Backend *string `toml:"backend"`
	Path    *string `toml:"path"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Options merges file values over the defaults.
func (c FileConfig) Options() model.Options {
	opts := model.DefaultOptions()
	if c.Targets.Beers != nil {
		opts.Targets.Beers = *c.Targets.Beers
	}
	if c.Targets.Walk != nil {
		opts.Targets.WalkKm = *c.Targets.Walk
	}
	if c.Targets.Sleep != nil {
		opts.Targets.SleepH = *c.Targets.Sleep
	}
	if c.Targets.Water != nil {
		opts.Targets.WaterL = *c.Targets.Water
	}
	if c.Targets.PlanDays != nil {
		opts.Targets.PlanDays = *c.Targets.PlanDays
	}
	if c.Features.TrackWater != nil {
		opts.Features.TrackWater = *c.Features.TrackWater
	}
	if c.Features.ShowCurves != nil {
		opts.Features.ShowCurves = *c.Features.ShowCurves
	}
	return opts
}

// ValidateOptions rejects targets the heuristics cannot work with.
func ValidateOptions(opts model.Options) error {
	t := opts.Targets
	if t.Beers < 0 {
		return fmt.Errorf("beers target must be >= 0")
	}
	if t.WalkKm <= 0 {
		return fmt.Errorf("walk target must be > 0")
	}
	if t.SleepH <= 0 {
		return fmt.Errorf("sleep target must be > 0")
	}
	if t.WaterL < 0 {
		return fmt.Errorf("water target must be >= 0")
	}
	if t.PlanDays < 1 {
		return fmt.Errorf("plan-days must be >= 1")
	}
	return nil
}
