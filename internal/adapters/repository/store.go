// Package repository holds observation records for the analytics engine.
package repository

import (
	"context"

	"github.com/okian/classwatch/internal/domain/model"
)

// StudentSummary describes one student known to the store.
type StudentSummary struct {
	StudentID    string `json:"student_id"`
	StudentName  string `json:"student_name"`
	Observations int    `json:"observations"`
}

// Store provides read/write access to observation records.
type Store interface {
	// Add appends an observation. Returns ErrDuplicateObservation when the
	// ID is already stored and ErrInvalidObservation when it lacks an ID or
	// a student.
	Add(ctx context.Context, obs model.Observation) error

	// Snapshot returns a deep copy of every record in insertion order.
	Snapshot(ctx context.Context) []model.Observation

	// SnapshotFor returns a deep copy of one student's records in insertion
	// order. Returns ErrNotFound if the student is unknown.
	SnapshotFor(ctx context.Context, studentID string) ([]model.Observation, error)

	// Students lists known students in first-seen order.
	Students(ctx context.Context) []StudentSummary

	// Count returns the number of stored observations.
	Count(ctx context.Context) int
}
