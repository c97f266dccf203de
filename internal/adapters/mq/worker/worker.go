package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/classwatch/internal/domain/model"
	"github.com/okian/classwatch/pkg/logger"
	"github.com/okian/classwatch/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Writer stores an observation.
type Writer interface {
	Add(ctx context.Context, obs model.Observation) error
}

// Queue defines how workers receive observations.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Observation
}

// Worker consumes observations until the queue closes or ctx is done.
type Worker interface {
	Run(ctx context.Context)
}

// Counters aggregates worker outcomes. Safe for concurrent use.
type Counters struct {
	stored   atomic.Int64
	rejected atomic.Int64
	failed   atomic.Int64
}

// Stored returns the number of observations written to the store.
func (c *Counters) Stored() int64 { return c.stored.Load() }

// Rejected returns the number of observations dropped by the score policy.
func (c *Counters) Rejected() int64 { return c.rejected.Load() }

// Failed returns the number of observations the store refused.
func (c *Counters) Failed() int64 { return c.failed.Load() }

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	writer   Writer
	policy   ScorePolicy
	counters *Counters
	name     string
	done     chan struct{}
	logger   logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, w Writer, counters *Counters, opts ...Option) *InMemoryWorker {
	if counters == nil {
		counters = &Counters{}
	}
	wk := &InMemoryWorker{
		queue:    q,
		writer:   w,
		policy:   PolicyKeep,
		counters: counters,
		name:     "worker",
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(wk)
	}
	return wk
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case obs, ok := <-items:
			if !ok {
				return
			}
			if err := w.process(ctx, obs); err != nil {
				w.logger.Warn(ctx, "observation not stored",
					logger.String("worker", w.name),
					logger.String("observation_id", obs.ID),
					logger.Error(err))
			}
		}
	}
}

func (w *InMemoryWorker) process(ctx context.Context, obs model.Observation) error { //nolint:gocritic // hugeParam: passed by value for channel semantics
	metrics.IncWorkerActive()
	defer metrics.DecWorkerActive()

	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	normalized, ok := w.policy.Apply(obs)
	if !ok {
		w.counters.rejected.Add(1)
		metrics.RecordObservationRejected(metrics.RejectOutOfScale)
		return fmt.Errorf("%w: %s", ErrOutOfScale, obs.ID)
	}

	if err := w.writer.Add(ctx, normalized); err != nil {
		w.counters.failed.Add(1)
		metrics.RecordWorkerError()
		return fmt.Errorf("store observation %s: %w", obs.ID, err)
	}

	w.counters.stored.Add(1)
	metrics.RecordObservationIngested()
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	counters *Counters
	started  sync.Once
	running  atomic.Bool
	logger   logger.Logger
}

// NewPool creates a new worker pool. workerCount < 1 selects a default
// based on the CPU count.
func NewPool(workerCount int, q Queue, w Writer, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		counters: &Counters{},
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, w, p.counters, wopts...)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Counters returns the shared outcome counters.
func (p *Pool) Counters() *Counters {
	return p.counters
}

// Start starts all workers in the pool. Calling Start again is a no-op.
func (p *Pool) Start(ctx context.Context) {
	p.started.Do(func() {
		p.running.Store(true)
		for _, wk := range p.workers {
			go wk.Run(ctx)
		}
	})
}

// Shutdown closes the queue, if it can be closed, and waits for the workers
// to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	if !p.running.Load() {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut int
	for _, wk := range p.workers {
		select {
		case <-wk.Done():
		case <-shutdownCtx.Done():
			timedOut++
		}
	}
	if timedOut > 0 {
		p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("workers", timedOut))
		return fmt.Errorf("%d workers still running: %w", timedOut, shutdownCtx.Err())
	}
	return nil
}
