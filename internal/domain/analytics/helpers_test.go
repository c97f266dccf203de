package analytics_test

import (
	"strconv"
	"time"

	"github.com/okian/classwatch/internal/domain/analytics"
	"github.com/okian/classwatch/internal/domain/model"
)

var baseDay = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func utcConfig(opts ...analytics.Option) analytics.Config {
	return analytics.NewConfig(append([]analytics.Option{analytics.WithLocation(time.UTC)}, opts...)...)
}

// scoreSeries returns one single-category record per day for a student.
func scoreSeries(studentID, name, category string, scores ...float64) []model.Observation {
	out := make([]model.Observation, 0, len(scores))
	for i, s := range scores {
		out = append(out, model.Observation{
			ID:          studentID + "-" + category + "-" + strconv.Itoa(i),
			StudentID:   studentID,
			StudentName: name,
			Timestamp:   baseDay.AddDate(0, 0, i),
			Categories:  []model.CategoryScore{{Category: category, Score: s}},
		})
	}
	return out
}

func record(studentID string, at time.Time, scores ...model.CategoryScore) model.Observation {
	return model.Observation{
		ID:          studentID + "@" + at.Format(time.RFC3339),
		StudentID:   studentID,
		StudentName: "Student " + studentID,
		Timestamp:   at,
		Categories:  scores,
	}
}

func cs(category string, score float64) model.CategoryScore {
	return model.CategoryScore{Category: category, Score: score}
}

func cloneAll(records []model.Observation) []model.Observation {
	out := make([]model.Observation, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
