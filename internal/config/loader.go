package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if REHOUND_CONFIG is set
//  3. env (prefix REHOUND_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("REHOUND_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: REHOUND_ADDR, REHOUND_QUEUE_SIZE, ...
	// Map env keys like REHOUND_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("REHOUND_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "rehound_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Store != "memory" && c.Store != "sqlite" {
		return fmt.Errorf("%w: store must be memory or sqlite", ErrInvalidConfig)
	}
	if c.Store == "sqlite" && c.SQLitePath == "" {
		return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
	}
	if c.NotifyThreshold <= 0 || c.NotifyThreshold > 1 {
		return fmt.Errorf("%w: notify_threshold must be in (0,1]", ErrInvalidConfig)
	}
	if c.DisplayThreshold <= 0 || c.DisplayThreshold > 1 {
		return fmt.Errorf("%w: display_threshold must be in (0,1]", ErrInvalidConfig)
	}
	if c.GeoRadiusKM <= 0 {
		return fmt.Errorf("%w: geo_radius_km must be positive", ErrInvalidConfig)
	}
	if c.TimeWindowDays <= 0 {
		return fmt.Errorf("%w: time_window_days must be positive", ErrInvalidConfig)
	}
	sum := c.BreedWeight + c.ColorWeight + c.LocationWeight + c.TimeWeight
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: score weights must sum to 1, got %g", ErrInvalidConfig, sum)
	}
	return nil
}
