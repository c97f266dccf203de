package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/classwatch/internal/domain/model"
	"github.com/okian/classwatch/pkg/metrics"
)

const defaultMetricsUpdateInterval = 5 * time.Second

// MemoryStore is an in-memory, append-only Store. Records keep their
// insertion order, which the analyses rely on for first-seen ordering.
type MemoryStore struct {
	mu        sync.RWMutex
	records   []model.Observation
	ids       map[string]struct{}
	byStudent map[string][]int // record indexes per student
	students  []string         // first-seen order
	names     map[string]string

	capacity              int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore constructs a store and starts its metrics updater, which
// runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		ids:                   make(map[string]struct{}),
		byStudent:             make(map[string][]int),
		names:                 make(map[string]string),
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.records = make([]model.Observation, 0, s.capacity)

	s.startMetricsUpdater(ctx)
	return s
}

// Add implements Store.Add.
func (s *MemoryStore) Add(_ context.Context, obs model.Observation) error {
	if obs.ID == "" || obs.StudentID == "" {
		return fmt.Errorf("%w: id and student_id are required", ErrInvalidObservation)
	}
	obs = obs.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[obs.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateObservation, obs.ID)
	}
	s.ids[obs.ID] = struct{}{}
	if _, ok := s.byStudent[obs.StudentID]; !ok {
		s.students = append(s.students, obs.StudentID)
		s.names[obs.StudentID] = obs.StudentName
	}
	s.byStudent[obs.StudentID] = append(s.byStudent[obs.StudentID], len(s.records))
	s.records = append(s.records, obs)
	return nil
}

// Snapshot implements Store.Snapshot.
func (s *MemoryStore) Snapshot(_ context.Context) []model.Observation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Observation, len(s.records))
	for i := range s.records {
		out[i] = s.records[i].Clone()
	}
	return out
}

// SnapshotFor implements Store.SnapshotFor.
func (s *MemoryStore) SnapshotFor(_ context.Context, studentID string) ([]model.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byStudent[studentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, studentID)
	}
	out := make([]model.Observation, len(idx))
	for i, j := range idx {
		out[i] = s.records[j].Clone()
	}
	return out, nil
}

// Students implements Store.Students.
func (s *MemoryStore) Students(_ context.Context) []StudentSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]StudentSummary, len(s.students))
	for i, id := range s.students {
		out[i] = StudentSummary{
			StudentID:    id,
			StudentName:  s.names[id],
			Observations: len(s.byStudent[id]),
		}
	}
	return out
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close stops the metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *MemoryStore) updateMetrics() {
	s.mu.RLock()
	records, students := len(s.records), len(s.students)
	s.mu.RUnlock()
	metrics.UpdateStoreSize(records, students)
}
