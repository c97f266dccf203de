package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrUnknownAnalysis = errors.New("unknown analysis")
)
