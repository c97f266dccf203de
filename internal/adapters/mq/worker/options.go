// Package worker moves observations from the queue into the store.
package worker

import (
	"github.com/okian/classwatch/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithScorePolicy sets the normalization applied before storing.
func WithScorePolicy(p ScorePolicy) Option {
	return func(w *InMemoryWorker) {
		if p != "" {
			w.policy = p
		}
	}
}
