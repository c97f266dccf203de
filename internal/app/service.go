// Package service wires the ingest pipeline to the analytics engine and
// provides the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	eventqueue "github.com/okian/classwatch/internal/adapters/mq/queue"
	workerpool "github.com/okian/classwatch/internal/adapters/mq/worker"
	repository "github.com/okian/classwatch/internal/adapters/repository"
	"github.com/okian/classwatch/internal/demo"
	"github.com/okian/classwatch/internal/domain/analytics"
	"github.com/okian/classwatch/internal/domain/dedupe"
	"github.com/okian/classwatch/pkg/logger"
	"github.com/okian/classwatch/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultWorkerMultiplier = 2
	defaultQueueSize        = 10_000
	defaultDedupeSize       = 100_000
)

// Service owns the observation store and answers analytics queries over it.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	ownsStore  bool
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	analytics   analytics.Config
	policy      workerpool.ScorePolicy
	seedDemo    bool

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * defaultWorkerMultiplier,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		analytics:   analytics.DefaultConfig(),
		policy:      workerpool.PolicyKeep,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components. The workers outlive
// ctx; they stop on Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting classwatch service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	if s.store == nil {
		s.store = repository.NewMemoryStore(runCtx)
		s.ownsStore = true
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	q := eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.eventQueue = q

	s.workerPool = workerpool.NewPool(s.workerCount, q, s.store,
		workerpool.WithScorePolicy(s.policy))
	s.workerPool.Start(runCtx)

	s.started = true

	if s.seedDemo {
		s.seed(ctx)
	}

	s.logger.Info(ctx, "classwatch service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("scorePolicy", string(s.policy)),
	)

	return nil
}

// seed ingests the demo cohort synchronously. Called with s.mu held.
func (s *Service) seed(ctx context.Context) {
	records := demo.Generate(demo.DefaultGeneratorConfig())
	var stored int
	for i := range records {
		if err := s.ingest(ctx, records[i]); err != nil {
			s.logger.Warn(ctx, "demo observation not seeded",
				logger.String("observation_id", records[i].ID),
				logger.Error(err))
			continue
		}
		stored++
	}
	s.logger.Info(ctx, "seeded demo cohort", logger.Int("observations", stored))
}

// Stop drains the ingest queue and shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping classwatch service...")

	if s.workerPool != nil {
		if err := s.workerPool.Shutdown(ctx); err != nil {
			s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
		}
	}

	if s.ownsStore {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	if s.cancel != nil {
		s.cancel()
	}

	s.started = false
	s.logger.Info(ctx, "classwatch service stopped")
}

// Started reports whether the service is accepting observations.
func (s *Service) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"scorePolicy": string(s.policy),
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		observations := s.store.Count(ctx)
		students := len(s.store.Students(ctx))
		counters := s.workerPool.Counters()

		stats["queueLength"] = queueLen
		stats["observations"] = observations
		stats["students"] = students
		stats["dedupeEntries"] = s.deduper.Size()
		stats["stored"] = counters.Stored()
		stats["rejected"] = counters.Rejected()
		stats["failed"] = counters.Failed()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreSize(observations, students)
	}

	return stats
}
