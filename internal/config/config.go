// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// AvgGameMinutes is the assumed average game length used for CS/min and the
	// game-length feature.
	AvgGameMinutes float64 `koanf:"avg_game_minutes"`

	// MinGames is the minimum number of games a champion needs to enter the map.
	MinGames int `koanf:"min_games"`

	// CanvasWidth and CanvasHeight bound the layout.
	CanvasWidth  float64 `koanf:"canvas_width"`
	CanvasHeight float64 `koanf:"canvas_height"`

	// MaxRecords caps the number of records accepted by POST /stylemap.
	MaxRecords int `koanf:"max_records"`

	// DBPath is the SQLite database file for match history.
	DBPath string `koanf:"db_path"`

	// CacheSize bounds the style map result cache.
	CacheSize int `koanf:"cache_size"`

	// QueueSize bounds the build job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of build workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxBodyBytes limits HTTP request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// ChampionRegistry optionally points at a YAML file replacing the built-in registry.
	ChampionRegistry string `koanf:"champion_registry"`

	// MetricsNamespace and MetricsSubsystem prefix every Prometheus metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLatencyBuckets overrides the millisecond buckets of latency histograms.
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets"`
}

// Smallest canvas side that still leaves room inside the layout margins.
const minCanvasSide = 80

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		AvgGameMinutes: 31,
		MinGames:       4,
		CanvasWidth:    960,
		CanvasHeight:   560,
		MaxRecords:     500,
		DBPath:         "stylemap.db",
		CacheSize:      1024,
		QueueSize:      1000,
		WorkerCount:    runtime.NumCPU(),
		MaxBodyBytes:   1 << 20,

		MetricsNamespace: "stylemap",
		MetricsSubsystem: "service",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.AvgGameMinutes <= 0:
		return fmt.Errorf("%w: avg_game_minutes must be positive", ErrInvalidConfig)
	case c.MinGames < 0:
		return fmt.Errorf("%w: min_games must not be negative", ErrInvalidConfig)
	case c.CanvasWidth <= minCanvasSide || c.CanvasHeight <= minCanvasSide:
		return fmt.Errorf("%w: canvas must be larger than %dx%d", ErrInvalidConfig, minCanvasSide, minCanvasSide)
	case !increasing(c.MetricsLatencyBuckets):
		return fmt.Errorf("%w: metrics_latency_buckets must be strictly increasing", ErrInvalidConfig)
	}
	return nil
}

func increasing(buckets []float64) bool {
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return false
		}
	}
	return true
}
