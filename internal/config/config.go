// Package config defines service configuration and its loading hooks.
//
// Conventions:
//   - New returns a Config populated with defaults.
//   - Load layers defaults, an optional YAML file and JELAJAH_ environment variables.
//   - Validation failures wrap ErrInvalidConfig.
package config

import (
	"runtime"
)

// Store backends accepted by StoreBackend.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreBadger = "badger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath points at the destination CSV.
	CatalogPath string `koanf:"catalog_path"`
	// CatalogSampleFallback serves a built-in three-entry catalog when the CSV is missing.
	CatalogSampleFallback bool `koanf:"catalog_sample_fallback"`
	// RegionTablePath optionally replaces the built-in region pattern and alias tables.
	RegionTablePath string `koanf:"region_table_path"`
	// ModelPath points at persisted model weights. Empty selects the heuristic provider.
	ModelPath string `koanf:"model_path"`

	// StoreBackend selects the profile and visit-history store: memory, sqlite, badger.
	StoreBackend string `koanf:"store_backend"`
	SQLitePath   string `koanf:"sqlite_path"`
	BadgerPath   string `koanf:"badger_path"`

	// RequestTimeoutMS bounds a whole recommend call. Zero disables the bound.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
	// ScoringConcurrency bounds concurrent predictive calls per request.
	ScoringConcurrency int `koanf:"scoring_concurrency"`

	// BreakerMaxFailures opens the model breaker after this many consecutive failures.
	BreakerMaxFailures int `koanf:"breaker_max_failures"`
	// BreakerOpenTimeoutMS is how long the breaker stays open before probing again.
	BreakerOpenTimeoutMS int `koanf:"breaker_open_timeout_ms"`

	// VisitQueueSize bounds the in-memory visit event queue.
	VisitQueueSize int `koanf:"visit_queue_size"`
	// VisitWorkerCount sets the number of visit persistence workers.
	VisitWorkerCount int `koanf:"visit_worker_count"`
	// VisitDedupeSize sets the size of the visit idempotency cache.
	VisitDedupeSize int `koanf:"visit_dedupe_size"`

	// RateLimitPerMinute caps requests per client IP. Zero disables limiting.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		CatalogPath:          "data/destinations.csv",
		StoreBackend:         StoreMemory,
		SQLitePath:           "data/jelajah.db",
		BadgerPath:           "data/badger",
		RequestTimeoutMS:     5_000,
		ScoringConcurrency:   runtime.NumCPU() * 2,
		BreakerMaxFailures:   5,
		BreakerOpenTimeoutMS: 30_000,
		VisitQueueSize:       10_000,
		VisitWorkerCount:     runtime.NumCPU(),
		VisitDedupeSize:      100_000,
		RateLimitPerMinute:   600,
	}
}
