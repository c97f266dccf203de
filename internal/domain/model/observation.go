// Package model contains domain models passed between layers.
package model

import "time"

// Category names of the default observation vocabulary.
const (
	CategoryCognitive     = "Cognitive Skills"
	CategorySocial        = "Social Skills"
	CategoryEmotional     = "Emotional Readiness"
	CategoryCommunication = "Communication"
	CategoryCreativity    = "Creativity"
)

// Score scale bounds. Every score is read on this scale.
const (
	MinScore = 1.0
	MaxScore = 5.0
)

// DefaultCategories returns the canonical category vocabulary in display order.
func DefaultCategories() []string {
	return []string{
		CategoryCognitive,
		CategorySocial,
		CategoryEmotional,
		CategoryCommunication,
		CategoryCreativity,
	}
}

// CategoryScore is one scored category inside an observation.
type CategoryScore struct {
	Category        string
	Score           float64
	IsAutoSuggested bool
}

// Observation is a single classroom record about one student.
// StudentID is the join key; StudentName is display data only.
type Observation struct {
	ID          string
	StudentID   string
	StudentName string
	Timestamp   time.Time
	Categories  []CategoryScore
	Tags        []string
}

// Clone returns a deep copy so callers can hand out observations without
// sharing the backing slices.
func (o Observation) Clone() Observation {
	c := o
	if o.Categories != nil {
		c.Categories = make([]CategoryScore, len(o.Categories))
		copy(c.Categories, o.Categories)
	}
	if o.Tags != nil {
		c.Tags = make([]string, len(o.Tags))
		copy(c.Tags, o.Tags)
	}
	return c
}

// InRange reports whether score lies on the 1-5 scale.
func InRange(score float64) bool {
	return score >= MinScore && score <= MaxScore
}
