package analytics

import (
	"math"
	"sort"

	"github.com/okian/classwatch/internal/domain/model"
	"github.com/okian/classwatch/internal/domain/types"
)

// Peers ranks every student against the whole cohort.
//
// A student's category average is the mean of all their scores for that
// category. For each configured category the cohort averages are sorted
// ascending and a student's percentile is
//
//	round((firstIndexAtOrAbove(avg) + 1) / cohortSize * 100)
//
// so tied students share the percentile of the lowest rank in the tie.
// OverallPercentile is the mean of the student's non-zero category
// percentiles. The result is ordered by OverallPercentile, highest first.
func Peers(records []model.Observation, cfg Config) []types.PeerComparison { //nolint:gocritic // hugeParam: Config is read-only
	cfg = cfg.normalized()
	c := indexCohort(records)

	averages := make(map[string]map[string]float64, len(c.students))
	for _, id := range c.students {
		averages[id] = make(map[string]float64, len(c.studentCategories[id]))
	}
	for _, s := range c.pairs {
		averages[s.key.studentID][s.key.category] = s.mean()
	}

	cohortScores := make(map[string][]float64, len(cfg.Categories))
	for _, category := range cfg.Categories {
		var list []float64
		for _, id := range c.students {
			if avg := averages[id][category]; avg != 0 {
				list = append(list, avg)
			}
		}
		sort.Float64s(list)
		cohortScores[category] = list
	}

	out := make([]types.PeerComparison, 0, len(c.students))
	for _, id := range c.students {
		percentiles := make(map[string]int, len(cfg.Categories))
		var sum float64
		var n int
		for _, category := range cfg.Categories {
			avg := averages[id][category]
			if avg == 0 {
				continue
			}
			p := percentile(cohortScores[category], avg)
			percentiles[category] = p
			if p == 0 {
				continue
			}
			sum += float64(p)
			n++
		}
		var overall float64
		if n > 0 {
			overall = sum / float64(n)
		}
		out = append(out, types.PeerComparison{
			StudentID:         id,
			StudentName:       c.names[id],
			CategoryAverages:  averages[id],
			Percentile:        percentiles,
			OverallPercentile: overall,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverallPercentile > out[j].OverallPercentile
	})
	return out
}

// percentile returns the rank-derived standing of score within the
// ascending list sorted.
func percentile(sorted []float64, score float64) int {
	if len(sorted) == 0 {
		return 0
	}
	idx := sort.SearchFloat64s(sorted, score)
	return int(math.Floor(float64(idx+1)/float64(len(sorted))*100 + 0.5))
}
