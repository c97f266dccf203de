package worker

import (
	"fmt"
	"math"

	"github.com/okian/classwatch/internal/domain/model"
)

// ScorePolicy decides what happens to category scores outside the 1-5 scale.
type ScorePolicy string

// Supported policies.
const (
	// PolicyKeep stores scores unchanged.
	PolicyKeep ScorePolicy = "keep"
	// PolicyClamp pulls scores into the scale.
	PolicyClamp ScorePolicy = "clamp"
	// PolicySkip drops out-of-range entries; an observation left without
	// entries is rejected.
	PolicySkip ScorePolicy = "skip"
)

// ParseScorePolicy returns the policy named s.
func ParseScorePolicy(s string) (ScorePolicy, error) {
	switch p := ScorePolicy(s); p {
	case PolicyKeep, PolicyClamp, PolicySkip:
		return p, nil
	case "":
		return PolicyKeep, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Apply normalizes o under the policy. NaN scores are never kept. The
// boolean is false when nothing storable remains.
func (p ScorePolicy) Apply(o model.Observation) (model.Observation, bool) { //nolint:gocritic // hugeParam: returns a modified copy
	o = o.Clone()
	kept := o.Categories[:0]
	for _, cs := range o.Categories {
		if math.IsNaN(cs.Score) {
			continue
		}
		if !model.InRange(cs.Score) {
			switch p {
			case PolicySkip:
				continue
			case PolicyClamp:
				cs.Score = math.Max(model.MinScore, math.Min(model.MaxScore, cs.Score))
			case PolicyKeep:
			}
		}
		kept = append(kept, cs)
	}
	if len(o.Categories) > 0 && len(kept) == 0 {
		return o, false
	}
	if o.Categories != nil {
		o.Categories = kept
	}
	return o, true
}
