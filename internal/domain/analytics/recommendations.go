package analytics

import (
	"github.com/okian/classwatch/internal/domain/types"
)

// Rule is one score band of the recommendation catalog. Both ends of the
// band are inclusive.
type Rule struct {
	MinScore       float64  `koanf:"min_score" yaml:"min_score"`
	MaxScore       float64  `koanf:"max_score" yaml:"max_score"`
	Recommendation string   `koanf:"recommendation" yaml:"recommendation"`
	Activity       string   `koanf:"activity" yaml:"activity"`
	Resources      []string `koanf:"resources" yaml:"resources"`
}

// Contains reports whether score falls inside the band.
func (r *Rule) Contains(score float64) bool {
	return score >= r.MinScore && score <= r.MaxScore
}

// Catalog maps a category name to its score-band rules.
type Catalog map[string][]Rule

// Clone returns a deep copy of the catalog.
func (c Catalog) Clone() Catalog {
	if c == nil {
		return nil
	}
	out := make(Catalog, len(c))
	for category, rules := range c {
		cp := make([]Rule, len(rules))
		for i, r := range rules {
			cp[i] = r
			cp[i].Resources = append([]string(nil), r.Resources...)
		}
		out[category] = cp
	}
	return out
}

// Recommend matches every alert against the catalog rules of its category.
//
// Each rule whose band contains the alert's score produces one
// recommendation carrying the alert's severity as priority. Nothing is
// deduplicated: overlapping bands and repeated alerts for the same category
// all yield separate entries. Alerts for categories without rules yield
// nothing.
func Recommend(alerts []types.InterventionAlert, cfg Config) []types.Recommendation { //nolint:gocritic // hugeParam: Config is read-only
	cfg = cfg.normalized()

	out := make([]types.Recommendation, 0)
	for i := range alerts {
		alert := &alerts[i]
		rules := cfg.Catalog[alert.Category]
		for j := range rules {
			rule := &rules[j]
			if !rule.Contains(alert.Score) {
				continue
			}
			out = append(out, types.Recommendation{
				StudentID:      alert.StudentID,
				StudentName:    alert.StudentName,
				Category:       alert.Category,
				Recommendation: rule.Recommendation,
				Activity:       rule.Activity,
				Resources:      append([]string(nil), rule.Resources...),
				Priority:       alert.Severity,
			})
		}
	}
	return out
}
