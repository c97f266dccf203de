package analytics

import (
	"fmt"
	"sort"

	"github.com/okian/classwatch/internal/domain/model"
	"github.com/okian/classwatch/internal/domain/types"
)

// Alerts scans every student/category pair for sustained decline and for a
// latest score under the low-score threshold.
//
// Pairs with fewer than MinObservations scores are skipped. Scores are put in
// record-timestamp order before windowing. The decline rule compares the mean
// of the last Window scores with the mean of the Window scores before them and
// needs both windows full. The two rules are independent, so a pair yields
// zero, one or two alerts. Students are visited in first-seen order and each
// student's categories in first-seen order; output is then stable-sorted by
// severity, high first.
func Alerts(records []model.Observation, cfg Config) []types.InterventionAlert { //nolint:gocritic // hugeParam: Config is read-only
	cfg = cfg.normalized()
	c := indexCohort(records)

	out := make([]types.InterventionAlert, 0)
	for _, id := range c.students {
		name := c.names[id]
		for _, category := range c.studentCategories[id] {
			s := c.byPair[pairKey{studentID: id, category: category}]
			if len(s.scores) < cfg.MinObservations {
				continue
			}
			scores := s.chronological()

			if alert, ok := declineAlert(s.key, name, scores, &cfg); ok {
				out = append(out, alert)
			}
			if alert, ok := thresholdAlert(s.key, name, scores, &cfg); ok {
				out = append(out, alert)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out
}

func declineAlert(k pairKey, name string, scores []float64, cfg *Config) (types.InterventionAlert, bool) {
	n := len(scores)
	w := cfg.Window
	if n < 2*w {
		return types.InterventionAlert{}, false
	}
	recent := mean(scores[n-w:])
	older := mean(scores[n-2*w : n-w])
	decline := older - recent
	if decline <= cfg.DeclineThreshold {
		return types.InterventionAlert{}, false
	}

	severity := types.SeverityLow
	switch {
	case decline > cfg.DeclineHigh:
		severity = types.SeverityHigh
	case decline > cfg.DeclineMedium:
		severity = types.SeverityMedium
	}

	return types.InterventionAlert{
		StudentID:   k.studentID,
		StudentName: name,
		AlertType:   types.AlertDecline,
		Category:    k.category,
		Severity:    severity,
		Message: fmt.Sprintf("%s's %s scores dropped by %.1f points (from %.1f to %.1f)",
			name, k.category, decline, older, recent),
		Score:     recent,
		Threshold: older,
		Trend:     decline,
	}, true
}

func thresholdAlert(k pairKey, name string, scores []float64, cfg *Config) (types.InterventionAlert, bool) {
	last := scores[len(scores)-1]
	if last >= cfg.LowScoreThreshold {
		return types.InterventionAlert{}, false
	}

	severity := types.SeverityLow
	switch {
	case last < cfg.LowScoreHigh:
		severity = types.SeverityHigh
	case last < cfg.LowScoreMedium:
		severity = types.SeverityMedium
	}

	return types.InterventionAlert{
		StudentID:   k.studentID,
		StudentName: name,
		AlertType:   types.AlertThreshold,
		Category:    k.category,
		Severity:    severity,
		Message: fmt.Sprintf("%s's latest %s score (%.1f) is below %.1f",
			name, k.category, last, cfg.LowScoreThreshold),
		Score:     last,
		Threshold: cfg.LowScoreThreshold,
		Trend:     0,
	}, true
}
