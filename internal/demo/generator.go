// Package demo builds the deterministic demo cohort and submits it to a
// running service.
package demo

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/okian/classwatch/internal/domain/model"
)

// Default generator configuration constants.
const (
	defaultWeeks  = 6
	defaultSeed   = 42
	defaultJitter = 0.2
	scoreDecimals = 100
	daysPerWeek   = 7
	classStartHr  = 9
)

// idNamespace scopes the name-based observation IDs of the demo cohort, so
// regenerating the cohort yields the same IDs and resubmission deduplicates.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://classwatch.local/demo-cohort")) //nolint:gochecknoglobals // constant namespace

// GeneratorConfig controls cohort generation.
type GeneratorConfig struct {
	Start time.Time // timestamp of the first weekly batch
	Weeks int       // number of weekly batches
	Seed  int64     // seed for the steady students' jitter
}

// DefaultGeneratorConfig returns the cohort used by the demo and its tests:
// six weekly batches starting Monday 2 September 2024, 09:00 UTC.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Start: time.Date(2024, time.September, 2, classStartHr, 0, 0, 0, time.UTC),
		Weeks: defaultWeeks,
		Seed:  defaultSeed,
	}
}

// curve describes one category of a student: the first week's score and the
// change applied every following week.
type curve struct {
	start float64
	step  float64
}

// Profile is one demo student.
type Profile struct {
	ID     string
	Name   string
	curves map[string]curve
	jitter bool
}

func steady(base float64) map[string]curve {
	out := make(map[string]curve, 5)
	for i, c := range model.DefaultCategories() {
		// spread the five categories a little around base
		out[c] = curve{start: base + float64(i%3)*0.2}
	}
	return out
}

// Profiles returns the eight demo students. Mike Chen declines in every
// category; Sara Lopez improves; the rest hold steady with small jitter.
func Profiles() []Profile {
	return []Profile{
		{ID: "student-01", Name: "Emma Wilson", curves: steady(4.1), jitter: true},
		{ID: "student-02", Name: "Mike Chen", curves: map[string]curve{
			model.CategoryCognitive:     {start: 2.1, step: -0.1},
			model.CategorySocial:        {start: 2.6, step: -0.28},
			model.CategoryEmotional:     {start: 2.4, step: -0.2},
			model.CategoryCommunication: {start: 3.0, step: -0.4},
			model.CategoryCreativity:    {start: 2.1, step: -0.1},
		}},
		{ID: "student-03", Name: "Aisha Patel", curves: steady(3.6), jitter: true},
		{ID: "student-04", Name: "Lucas Rossi", curves: steady(3.2), jitter: true},
		{ID: "student-05", Name: "Sara Lopez", curves: map[string]curve{
			model.CategoryCognitive:     {start: 2.8, step: 0.15},
			model.CategorySocial:        {start: 3.0, step: 0.1},
			model.CategoryEmotional:     {start: 2.9, step: 0.12},
			model.CategoryCommunication: {start: 3.1, step: 0.1},
			model.CategoryCreativity:    {start: 3.0, step: 0.15},
		}},
		{ID: "student-06", Name: "Noah Kim", curves: steady(3.9), jitter: true},
		{ID: "student-07", Name: "Olivia Brown", curves: steady(3.4), jitter: true},
		{ID: "student-08", Name: "Yusuf Demir", curves: steady(3.0), jitter: true},
	}
}

// Generate returns one observation per student per weekly batch, each scoring
// all five default categories. The output is fully determined by cfg.
func Generate(cfg GeneratorConfig) []model.Observation {
	if cfg.Weeks < 1 {
		cfg.Weeks = defaultWeeks
	}
	if cfg.Start.IsZero() {
		cfg.Start = DefaultGeneratorConfig().Start
	}
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic seed for reproducible fixtures

	profiles := Profiles()
	categories := model.DefaultCategories()
	out := make([]model.Observation, 0, len(profiles)*cfg.Weeks)
	for week := 0; week < cfg.Weeks; week++ {
		batch := cfg.Start.AddDate(0, 0, week*daysPerWeek)
		for i, p := range profiles {
			scores := make([]model.CategoryScore, 0, len(categories))
			for _, category := range categories {
				c := p.curves[category]
				score := c.start + c.step*float64(week)
				if p.jitter {
					score += (rng.Float64()*2 - 1) * defaultJitter
				}
				scores = append(scores, model.CategoryScore{
					Category: category,
					Score:    roundScore(score),
				})
			}
			ts := batch.Add(time.Duration(i) * time.Minute)
			out = append(out, model.Observation{
				ID:          ObservationID(p.ID, week),
				StudentID:   p.ID,
				StudentName: p.Name,
				Timestamp:   ts,
				Categories:  scores,
				Tags:        []string{"weekly-check", fmt.Sprintf("week-%d", week+1)},
			})
		}
	}
	return out
}

// ObservationID returns the stable ID of a student's weekly demo observation.
func ObservationID(studentID string, week int) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s/%d", studentID, week))).String()
}

func roundScore(x float64) float64 {
	x = math.Round(x*scoreDecimals) / scoreDecimals
	return math.Max(model.MinScore, math.Min(model.MaxScore, x))
}
