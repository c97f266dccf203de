package config

import (
	"time"

	"github.com/okian/classwatch/internal/domain/analytics"
)

// Location resolves Timezone. "Local" and "" map to the process zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Analytics builds the engine configuration. An invalid time zone falls back
// to local time; Validate reports it before the service starts.
func (c *Config) Analytics() analytics.Config {
	loc, err := c.Location()
	if err != nil {
		loc = time.Local
	}
	opts := []analytics.Option{
		analytics.WithCategories(c.Categories),
		analytics.WithLocation(loc),
		analytics.WithWindows(c.MinObservations, c.Window),
		analytics.WithDeclineCutoffs(c.DeclineThreshold, c.DeclineMedium, c.DeclineHigh),
		analytics.WithLowScoreCutoffs(c.LowScoreThreshold, c.LowScoreMedium, c.LowScoreHigh),
	}
	if len(c.RecommendationCatalog) > 0 {
		opts = append(opts, analytics.WithCatalog(c.RecommendationCatalog))
	}
	return analytics.NewConfig(opts...)
}
