package service

import (
	"github.com/okian/classwatch/internal/adapters/mq/worker"
	"github.com/okian/classwatch/internal/adapters/repository"
	"github.com/okian/classwatch/internal/domain/analytics"
	"github.com/okian/classwatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingest workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many observation IDs are remembered for
// deduplication. Zero keeps every ID.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAnalyticsConfig sets the configuration passed to every analysis.
func WithAnalyticsConfig(cfg analytics.Config) Option { //nolint:gocritic // hugeParam: copied once at construction
	return func(s *Service) {
		s.analytics = cfg
	}
}

// WithScorePolicy sets how out-of-scale scores are handled at ingest.
func WithScorePolicy(p worker.ScorePolicy) Option {
	return func(s *Service) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithSeedDemo preloads the demo cohort when the service starts.
func WithSeedDemo(seed bool) Option {
	return func(s *Service) {
		s.seedDemo = seed
	}
}

// WithStore replaces the in-memory store created at start.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}
