package analytics

import (
	"sort"
	"time"

	"github.com/okian/classwatch/internal/domain/model"
)

// timedScore is a single category score with the timestamp of its record.
type timedScore struct {
	at    time.Time
	score float64
}

// pairKey identifies one student/category series.
type pairKey struct {
	studentID string
	category  string
}

// series collects every score of one student/category pair.
type series struct {
	key    pairKey
	scores []timedScore
}

func (s *series) sum() float64 {
	var total float64
	for _, ts := range s.scores {
		total += ts.score
	}
	return total
}

func (s *series) mean() float64 {
	if len(s.scores) == 0 {
		return 0
	}
	return s.sum() / float64(len(s.scores))
}

// chronological returns the scores ordered by record timestamp. Records with
// equal timestamps keep their input order.
func (s *series) chronological() []float64 {
	ordered := make([]timedScore, len(s.scores))
	copy(ordered, s.scores)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].at.Before(ordered[j].at)
	})
	out := make([]float64, len(ordered))
	for i, ts := range ordered {
		out[i] = ts.score
	}
	return out
}

// cohort indexes a record snapshot by student and by student/category pair,
// remembering first-seen order so results are deterministic.
type cohort struct {
	students []string
	names    map[string]string
	pairs    []*series
	byPair   map[pairKey]*series
	// categories per student in first-seen order
	studentCategories map[string][]string
}

func indexCohort(records []model.Observation) *cohort {
	c := &cohort{
		names:             make(map[string]string),
		byPair:            make(map[pairKey]*series),
		studentCategories: make(map[string][]string),
	}
	for i := range records {
		rec := &records[i]
		if _, ok := c.names[rec.StudentID]; !ok {
			c.students = append(c.students, rec.StudentID)
			c.names[rec.StudentID] = rec.StudentName
		}
		for _, cs := range rec.Categories {
			k := pairKey{studentID: rec.StudentID, category: cs.Category}
			s, ok := c.byPair[k]
			if !ok {
				s = &series{key: k}
				c.byPair[k] = s
				c.pairs = append(c.pairs, s)
				c.studentCategories[rec.StudentID] = append(c.studentCategories[rec.StudentID], cs.Category)
			}
			s.scores = append(s.scores, timedScore{at: rec.Timestamp, score: cs.Score})
		}
	}
	return c
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
