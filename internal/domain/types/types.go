// Package types contains the analytics result types shared across the application.
package types

// Severity ranks how urgently an alert needs attention.
type Severity string

// Severity levels.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities so that higher values are more urgent.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity maps a string to a Severity. ok is false for unknown values.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return Severity(s), true
	default:
		return "", false
	}
}

// AlertType names the rule that produced an alert.
type AlertType string

// Alert types. AlertImprovement is part of the result vocabulary but no
// current rule emits it.
const (
	AlertDecline     AlertType = "decline"
	AlertThreshold   AlertType = "threshold"
	AlertImprovement AlertType = "improvement"
)

// TrendData is the per-bucket average of every category scored in that bucket.
type TrendData struct {
	Period            string             `json:"period"`
	Scores            map[string]float64 `json:"scores"`
	TotalObservations int                `json:"total_observations"`
}

// PeerComparison places one student against the cohort.
type PeerComparison struct {
	StudentID         string             `json:"student_id"`
	StudentName       string             `json:"student_name"`
	CategoryAverages  map[string]float64 `json:"category_averages"`
	Percentile        map[string]int     `json:"percentile"`
	OverallPercentile float64            `json:"overall_percentile"`
}

// InterventionAlert flags a student/category pair that needs attention.
type InterventionAlert struct {
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	AlertType   AlertType `json:"alert_type"`
	Category    string    `json:"category"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	Score       float64   `json:"score"`
	Threshold   float64   `json:"threshold"`
	Trend       float64   `json:"trend"`
}

// Recommendation is a catalog suggestion produced for an alert.
type Recommendation struct {
	StudentID      string   `json:"student_id"`
	StudentName    string   `json:"student_name"`
	Category       string   `json:"category"`
	Recommendation string   `json:"recommendation"`
	Activity       string   `json:"activity"`
	Resources      []string `json:"resources"`
	Priority       Severity `json:"priority"`
}

// StudentReport bundles every analysis for a single student.
type StudentReport struct {
	StudentID       string              `json:"student_id"`
	StudentName     string              `json:"student_name"`
	Observations    int                 `json:"observations"`
	Trends          []TrendData         `json:"trends"`
	Peer            *PeerComparison     `json:"peer,omitempty"`
	Alerts          []InterventionAlert `json:"alerts"`
	Recommendations []Recommendation    `json:"recommendations"`
}
