package analytics

import (
	"sort"

	"github.com/okian/classwatch/internal/domain/model"
	"github.com/okian/classwatch/internal/domain/types"
)

// bucket accumulates category sums for one period.
type bucket struct {
	period string
	sums   map[string]float64
	counts map[string]int
	total  int
}

func (b *bucket) add(category string, score float64) {
	b.sums[category] += score
	b.counts[category]++
	b.total++
}

func (b *bucket) trend() types.TrendData {
	scores := make(map[string]float64, len(b.sums))
	for category, sum := range b.sums {
		scores[category] = sum / float64(b.counts[category])
	}
	return types.TrendData{
		Period:            b.period,
		Scores:            scores,
		TotalObservations: b.total,
	}
}

// bucketSet keeps buckets of one granularity in first-seen order.
type bucketSet struct {
	order []*bucket
	byKey map[string]*bucket
}

func newBucketSet() *bucketSet {
	return &bucketSet{byKey: make(map[string]*bucket)}
}

func (s *bucketSet) get(period string) *bucket {
	b, ok := s.byKey[period]
	if !ok {
		b = &bucket{
			period: period,
			sums:   make(map[string]float64),
			counts: make(map[string]int),
		}
		s.byKey[period] = b
		s.order = append(s.order, b)
	}
	return b
}

// Trends averages category scores per week and per month bucket.
//
// When studentID is non-empty only that student's records contribute.
// Every category score lands in both its week and its month bucket, and
// TotalObservations counts category scores rather than records. Week
// entries come first, then month entries, and the combined sequence is
// stable-sorted by reading each period key as a date.
func Trends(records []model.Observation, studentID string, cfg Config) []types.TrendData { //nolint:gocritic // hugeParam: Config is read-only
	cfg = cfg.normalized()

	weeks := newBucketSet()
	months := newBucketSet()
	for i := range records {
		rec := &records[i]
		if studentID != "" && rec.StudentID != studentID {
			continue
		}
		if len(rec.Categories) == 0 {
			continue
		}
		week := weeks.get(WeekKey(rec.Timestamp, cfg.Location))
		month := months.get(MonthKey(rec.Timestamp, cfg.Location))
		for _, cs := range rec.Categories {
			week.add(cs.Category, cs.Score)
			month.add(cs.Category, cs.Score)
		}
	}

	out := make([]types.TrendData, 0, len(weeks.order)+len(months.order))
	for _, b := range weeks.order {
		out = append(out, b.trend())
	}
	for _, b := range months.order {
		out = append(out, b.trend())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return periodTime(out[i].Period).Before(periodTime(out[j].Period))
	})
	return out
}
