package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNotStarted         = errors.New("service not started")
	ErrBackpressure       = errors.New("ingest queue is full")
	ErrDuplicate          = errors.New("observation already submitted")
	ErrStudentNotFound    = errors.New("student not found")
	ErrInvalidSeverity    = errors.New("invalid severity")
	ErrInvalidObservation = errors.New("invalid observation")
)
