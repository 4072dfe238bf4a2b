// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Layer file and env overrides in Load.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MatchQueueSize bounds the in-memory match job queue.
	MatchQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of match workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the submission deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// InboxSize caps stored notifications per user.
	InboxSize int `koanf:"inbox_size"`

	// Store selects the report store backend: memory or sqlite.
	Store string `koanf:"store"`

	// SQLitePath is the database file used when Store is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// MaxListLimit caps GET /reports?limit.
	MaxListLimit int `koanf:"max_list_limit"`

	// NotifyThreshold is the composite score needed to notify owners.
	NotifyThreshold float64 `koanf:"notify_threshold"`

	// DisplayThreshold is the default cutoff for match listings.
	DisplayThreshold float64 `koanf:"display_threshold"`

	// GeoRadiusKM is the distance at which the location score reaches 0.
	GeoRadiusKM float64 `koanf:"geo_radius_km"`

	// TimeWindowDays is the anchor gap at which the time score reaches 0.
	TimeWindowDays float64 `koanf:"time_window_days"`

	// Component weights of the composite score. They must sum to 1.
	BreedWeight    float64 `koanf:"breed_weight"`
	ColorWeight    float64 `koanf:"color_weight"`
	LocationWeight float64 `koanf:"location_weight"`
	TimeWeight     float64 `koanf:"time_weight"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		MatchQueueSize:   10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       50_000,
		InboxSize:        100,
		Store:            "memory",
		SQLitePath:       "rehound.db",
		MaxListLimit:     100,
		NotifyThreshold:  0.6,
		DisplayThreshold: 0.6,
		GeoRadiusKM:      10,
		TimeWindowDays:   14,
		BreedWeight:      0.30,
		ColorWeight:      0.30,
		LocationWeight:   0.25,
		TimeWeight:       0.15,
	}
	return c
}
