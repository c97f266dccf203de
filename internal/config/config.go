// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and CLASSWATCH_ env vars.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"runtime"

	"github.com/okian/classwatch/internal/domain/analytics"
	"github.com/okian/classwatch/internal/domain/model"
)

// Score policies applied at ingest to scores outside the 1-5 scale.
const (
	ScorePolicyKeep  = "keep"
	ScorePolicyClamp = "clamp"
	ScorePolicySkip  = "skip"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// QueueSize bounds the in-memory observation queue.
	QueueSize int `koanf:"queue_size" validate:"gt=0"`

	// WorkerCount sets the number of ingest workers.
	WorkerCount int `koanf:"worker_count" validate:"gt=0"`

	// DedupeSize sets how many observation IDs are remembered for
	// idempotent submission. Zero keeps every ID without eviction.
	DedupeSize int `koanf:"dedupe_size" validate:"gte=0"`

	// Timezone is the IANA zone used for week and month buckets.
	Timezone string `koanf:"timezone" validate:"required"`

	// Categories is the canonical category vocabulary.
	Categories []string `koanf:"categories" validate:"min=1,dive,required"`

	// MinObservations and Window size the alert windows.
	MinObservations int `koanf:"min_observations" validate:"gte=1"`
	Window          int `koanf:"window" validate:"gte=1"`

	// Decline alert cut-offs.
	DeclineThreshold float64 `koanf:"decline_threshold" validate:"gt=0"`
	DeclineMedium    float64 `koanf:"decline_medium" validate:"gtefield=DeclineThreshold"`
	DeclineHigh      float64 `koanf:"decline_high" validate:"gtefield=DeclineMedium"`

	// Low-score alert cut-offs.
	LowScoreThreshold float64 `koanf:"low_score_threshold" validate:"gt=0"`
	LowScoreMedium    float64 `koanf:"low_score_medium" validate:"gt=0,ltefield=LowScoreThreshold"`
	LowScoreHigh      float64 `koanf:"low_score_high" validate:"gt=0,ltefield=LowScoreMedium"`

	// ScorePolicy decides what ingest does with out-of-range scores.
	ScorePolicy string `koanf:"score_policy" validate:"oneof=keep clamp skip"`

	// SeedDemo preloads the demo cohort at start.
	SeedDemo bool `koanf:"seed_demo"`

	// RecommendationCatalog replaces the built-in catalog when set.
	RecommendationCatalog map[string][]analytics.Rule `koanf:"recommendation_catalog"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		QueueSize:         10_000,
		WorkerCount:       runtime.NumCPU() * 2,
		DedupeSize:        100_000,
		Timezone:          "Local",
		Categories:        model.DefaultCategories(),
		MinObservations:   3,
		Window:            3,
		DeclineThreshold:  0.5,
		DeclineMedium:     0.7,
		DeclineHigh:       1.0,
		LowScoreThreshold: 2.5,
		LowScoreMedium:    2.0,
		LowScoreHigh:      1.5,
		ScorePolicy:       ScorePolicyKeep,
	}
}
