// Package analytics derives trends, peer percentiles, intervention alerts and
// recommendations from a snapshot of observation records.
//
// Every function in this package is pure: it reads its input, never mutates
// it, never reads the wall clock and returns freshly allocated results. Tuning
// knobs travel in an explicit Config so callers can run analyses
// concurrently over the same snapshot.
package analytics

import (
	"time"

	"github.com/okian/classwatch/internal/domain/model"
)

// Default alert configuration constants.
const (
	defaultMinObservations   = 3
	defaultWindow            = 3
	defaultDeclineThreshold  = 0.5
	defaultDeclineMedium     = 0.7
	defaultDeclineHigh       = 1.0
	defaultLowScoreThreshold = 2.5
	defaultLowScoreMedium    = 2.0
	defaultLowScoreHigh      = 1.5
)

// Config carries the category vocabulary, bucketing location, alert cut-offs
// and recommendation catalog used by the analyses.
type Config struct {
	// Categories is the canonical vocabulary iterated by peer comparison.
	Categories []string
	// Location is the time zone used for week and month buckets.
	Location *time.Location

	// MinObservations is the minimum number of scores a student/category pair
	// needs before any alert is considered.
	MinObservations int
	// Window is the size of the recent and older windows compared for decline.
	Window int

	// A decline alert fires when older-minus-recent exceeds DeclineThreshold.
	// It is medium above DeclineMedium and high above DeclineHigh.
	DeclineThreshold float64
	DeclineMedium    float64
	DeclineHigh      float64

	// A threshold alert fires when the latest score is below LowScoreThreshold.
	// It is medium below LowScoreMedium and high below LowScoreHigh.
	LowScoreThreshold float64
	LowScoreMedium    float64
	LowScoreHigh      float64

	// Catalog maps a category to its score-band rules.
	Catalog Catalog
}

// Option applies a configuration option to a Config.
type Option func(*Config)

// WithCategories replaces the category vocabulary.
func WithCategories(categories []string) Option {
	return func(c *Config) {
		if len(categories) > 0 {
			c.Categories = append([]string(nil), categories...)
		}
	}
}

// WithLocation sets the time zone used for bucketing.
func WithLocation(loc *time.Location) Option {
	return func(c *Config) {
		if loc != nil {
			c.Location = loc
		}
	}
}

// WithWindows sets the minimum pair size and the decline window size.
func WithWindows(minObservations, window int) Option {
	return func(c *Config) {
		if minObservations > 0 {
			c.MinObservations = minObservations
		}
		if window > 0 {
			c.Window = window
		}
	}
}

// WithDeclineCutoffs sets the decline alert cut-offs.
func WithDeclineCutoffs(threshold, medium, high float64) Option {
	return func(c *Config) {
		if threshold > 0 && medium >= threshold && high >= medium {
			c.DeclineThreshold = threshold
			c.DeclineMedium = medium
			c.DeclineHigh = high
		}
	}
}

// WithLowScoreCutoffs sets the threshold alert cut-offs.
func WithLowScoreCutoffs(threshold, medium, high float64) Option {
	return func(c *Config) {
		if threshold > 0 && medium <= threshold && high <= medium {
			c.LowScoreThreshold = threshold
			c.LowScoreMedium = medium
			c.LowScoreHigh = high
		}
	}
}

// WithCatalog replaces the recommendation catalog.
func WithCatalog(catalog Catalog) Option {
	return func(c *Config) {
		if len(catalog) > 0 {
			c.Catalog = catalog.Clone()
		}
	}
}

// NewConfig builds a Config from defaults and the given options.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// DefaultConfig returns the stock vocabulary, local-time bucketing and the
// default cut-offs.
func DefaultConfig() Config {
	return Config{
		Categories:        model.DefaultCategories(),
		Location:          time.Local,
		MinObservations:   defaultMinObservations,
		Window:            defaultWindow,
		DeclineThreshold:  defaultDeclineThreshold,
		DeclineMedium:     defaultDeclineMedium,
		DeclineHigh:       defaultDeclineHigh,
		LowScoreThreshold: defaultLowScoreThreshold,
		LowScoreMedium:    defaultLowScoreMedium,
		LowScoreHigh:      defaultLowScoreHigh,
		Catalog:           DefaultCatalog(),
	}
}

// normalized fills zero fields with defaults so a zero Config is usable.
func (c Config) normalized() Config { //nolint:gocritic // hugeParam: returns a modified copy
	d := DefaultConfig()
	if len(c.Categories) == 0 {
		c.Categories = d.Categories
	}
	if c.Location == nil {
		c.Location = d.Location
	}
	if c.MinObservations <= 0 {
		c.MinObservations = d.MinObservations
	}
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.DeclineThreshold <= 0 {
		c.DeclineThreshold, c.DeclineMedium, c.DeclineHigh = d.DeclineThreshold, d.DeclineMedium, d.DeclineHigh
	}
	if c.LowScoreThreshold <= 0 {
		c.LowScoreThreshold, c.LowScoreMedium, c.LowScoreHigh = d.LowScoreThreshold, d.LowScoreMedium, d.LowScoreHigh
	}
	if c.Catalog == nil {
		c.Catalog = d.Catalog
	}
	return c
}
