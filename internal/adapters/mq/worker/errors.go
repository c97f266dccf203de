package worker

import "errors"

// Sentinel kinds for worker errors.
var (
	ErrUnknownPolicy = errors.New("unknown score policy")
	ErrOutOfScale    = errors.New("observation has no in-scale scores")
)
