package service

import (
	"context"
	"errors"
	"fmt"

	eventqueue "github.com/okian/classwatch/internal/adapters/mq/queue"
	workerpool "github.com/okian/classwatch/internal/adapters/mq/worker"
	"github.com/okian/classwatch/internal/domain/model"
	"github.com/okian/classwatch/pkg/logger"
	"github.com/okian/classwatch/pkg/metrics"
)

// SubmitResult tells the caller what happened to a submitted observation.
type SubmitResult int

// Submit outcomes.
const (
	// Accepted means the observation was queued for storage.
	Accepted SubmitResult = iota
	// Duplicate means the observation ID was already submitted.
	Duplicate
)

func validate(obs *model.Observation) error {
	switch {
	case obs.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidObservation)
	case obs.StudentID == "":
		return fmt.Errorf("%w: missing student id", ErrInvalidObservation)
	case obs.Timestamp.IsZero():
		return fmt.Errorf("%w: missing timestamp", ErrInvalidObservation)
	}
	return nil
}

// Submit queues an observation for asynchronous storage. A repeated ID is
// reported as Duplicate without error. When the queue is full the ID is
// released so the caller can retry, and ErrBackpressure is returned.
func (s *Service) Submit(ctx context.Context, obs model.Observation) (SubmitResult, error) { //nolint:gocritic // hugeParam: passed by value for channel semantics
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return Accepted, ErrNotStarted
	}
	if err := validate(&obs); err != nil {
		metrics.RecordObservationRejected(metrics.RejectInvalid)
		return Accepted, err
	}

	if s.deduper.SeenAndRecord(ctx, obs.ID) {
		metrics.RecordObservationDuplicate()
		s.logger.Debug(ctx, "duplicate observation skipped",
			logger.String("observation_id", obs.ID),
			logger.String("student_id", obs.StudentID))
		return Duplicate, nil
	}

	if err := s.eventQueue.Enqueue(ctx, obs); err != nil {
		s.deduper.Unrecord(ctx, obs.ID)
		if errors.Is(err, eventqueue.ErrFull) {
			metrics.RecordObservationRejected(metrics.RejectQueueFull)
			return Accepted, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return Accepted, fmt.Errorf("enqueue observation %s: %w", obs.ID, err)
	}

	metrics.UpdateQueueSize(s.eventQueue.Len(ctx))
	return Accepted, nil
}

// Ingest stores an observation synchronously, bypassing the queue. It
// applies the same deduplication and score policy as the workers.
func (s *Service) Ingest(ctx context.Context, obs model.Observation) error { //nolint:gocritic // hugeParam: copied before storing
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}
	return s.ingest(ctx, obs)
}

func (s *Service) ingest(ctx context.Context, obs model.Observation) error { //nolint:gocritic // hugeParam: copied before storing
	if err := validate(&obs); err != nil {
		metrics.RecordObservationRejected(metrics.RejectInvalid)
		return err
	}
	if s.deduper.SeenAndRecord(ctx, obs.ID) {
		metrics.RecordObservationDuplicate()
		return fmt.Errorf("%w: %s", ErrDuplicate, obs.ID)
	}

	normalized, ok := s.policy.Apply(obs)
	if !ok {
		metrics.RecordObservationRejected(metrics.RejectOutOfScale)
		return fmt.Errorf("%w: %s", workerpool.ErrOutOfScale, obs.ID)
	}
	if err := s.store.Add(ctx, normalized); err != nil {
		s.deduper.Unrecord(ctx, obs.ID)
		return err
	}
	metrics.RecordObservationIngested()
	return nil
}
