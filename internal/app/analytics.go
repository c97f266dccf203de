package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	repository "github.com/okian/classwatch/internal/adapters/repository"
	"github.com/okian/classwatch/internal/domain/analytics"
	"github.com/okian/classwatch/internal/domain/model"
	"github.com/okian/classwatch/internal/domain/types"
	"github.com/okian/classwatch/pkg/logger"
	"github.com/okian/classwatch/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// snapshot returns a copy of every stored record.
func (s *Service) snapshot(ctx context.Context) ([]model.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store.Snapshot(ctx), nil
}

// studentRecords returns one student's records, or every record when
// studentID is empty. An unknown student has no records.
func (s *Service) studentRecords(ctx context.Context, studentID string) ([]model.Observation, error) {
	if studentID == "" {
		return s.snapshot(ctx)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	records, err := s.store.SnapshotFor(ctx, studentID)
	if errors.Is(err, repository.ErrNotFound) {
		return []model.Observation{}, nil
	}
	return records, err
}

func (s *Service) observe(ctx context.Context, analysis string, start time.Time) {
	ms := float64(time.Since(start).Microseconds()) / 1000
	if err := metrics.RecordAnalysisLatency(analysis, ms); err != nil {
		s.logger.Debug(ctx, "analysis latency not recorded", logger.Error(err))
	}
}

// Students lists every student with stored observations.
func (s *Service) Students(ctx context.Context) ([]repository.StudentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store.Students(ctx), nil
}

// Trends returns week and month trend buckets, optionally for one student.
func (s *Service) Trends(ctx context.Context, studentID string) ([]types.TrendData, error) {
	records, err := s.studentRecords(ctx, studentID)
	if err != nil {
		return nil, err
	}
	defer s.observe(ctx, metrics.AnalysisTrends, time.Now())
	return analytics.Trends(records, studentID, s.analytics), nil
}

// Peers ranks every student against the cohort.
func (s *Service) Peers(ctx context.Context) ([]types.PeerComparison, error) {
	records, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer s.observe(ctx, metrics.AnalysisPeers, time.Now())
	return analytics.Peers(records, s.analytics), nil
}

// AlertFilter narrows the alerts returned by Alerts. Zero values match all.
type AlertFilter struct {
	StudentID string
	Severity  string
}

// Alerts returns intervention alerts ordered by severity.
func (s *Service) Alerts(ctx context.Context, f AlertFilter) ([]types.InterventionAlert, error) {
	var severity types.Severity
	if f.Severity != "" {
		sev, ok := types.ParseSeverity(f.Severity)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSeverity, f.Severity)
		}
		severity = sev
	}

	records, err := s.studentRecords(ctx, f.StudentID)
	if err != nil {
		return nil, err
	}
	defer s.observe(ctx, metrics.AnalysisAlerts, time.Now())

	alerts := analytics.Alerts(records, s.analytics)
	if f.StudentID == "" {
		recordOpenAlerts(alerts)
	}
	out := alerts[:0]
	for i := range alerts {
		if severity != "" && alerts[i].Severity != severity {
			continue
		}
		out = append(out, alerts[i])
	}
	return out, nil
}

// Recommendations returns catalog suggestions for the current alerts,
// optionally for one student.
func (s *Service) Recommendations(ctx context.Context, studentID string) ([]types.Recommendation, error) {
	records, err := s.studentRecords(ctx, studentID)
	if err != nil {
		return nil, err
	}
	defer s.observe(ctx, metrics.AnalysisRecommendations, time.Now())

	alerts := analytics.Alerts(records, s.analytics)
	recs := analytics.Recommend(alerts, s.analytics)
	metrics.RecordRecommendations(len(recs))
	return recs, nil
}

// StudentReport runs every analysis for one student over a single snapshot.
// Trends, peers and alerts run concurrently; recommendations follow alerts.
func (s *Service) StudentReport(ctx context.Context, studentID string) (types.StudentReport, error) {
	records, err := s.snapshot(ctx)
	if err != nil {
		return types.StudentReport{}, err
	}
	own := filterStudent(records, studentID)
	if len(own) == 0 {
		return types.StudentReport{}, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}
	defer s.observe(ctx, metrics.AnalysisReport, time.Now())

	report := types.StudentReport{
		StudentID:    studentID,
		StudentName:  own[0].StudentName,
		Observations: len(own),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Trends = analytics.Trends(own, studentID, s.analytics)
		return gctx.Err()
	})
	g.Go(func() error {
		for _, p := range analytics.Peers(records, s.analytics) {
			if p.StudentID == studentID {
				report.Peer = &p
				break
			}
		}
		return gctx.Err()
	})
	g.Go(func() error {
		report.Alerts = analytics.Alerts(own, s.analytics)
		report.Recommendations = analytics.Recommend(report.Alerts, s.analytics)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return types.StudentReport{}, fmt.Errorf("student report %s: %w", studentID, err)
	}

	metrics.RecordRecommendations(len(report.Recommendations))
	return report, nil
}

// RefreshAlerts recomputes cohort alerts and publishes the open count per
// type and severity.
func (s *Service) RefreshAlerts(ctx context.Context) error {
	records, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	defer s.observe(ctx, metrics.AnalysisAlerts, time.Now())
	recordOpenAlerts(analytics.Alerts(records, s.analytics))
	return nil
}

func recordOpenAlerts(alerts []types.InterventionAlert) {
	counts := make(map[[2]string]int)
	for i := range alerts {
		counts[[2]string{string(alerts[i].AlertType), string(alerts[i].Severity)}]++
	}
	metrics.ResetOpenAlerts()
	for k, n := range counts {
		metrics.UpdateOpenAlerts(k[0], k[1], n)
	}
}

func filterStudent(records []model.Observation, studentID string) []model.Observation {
	if studentID == "" {
		return records
	}
	out := make([]model.Observation, 0, len(records))
	for i := range records {
		if records[i].StudentID == studentID {
			out = append(out, records[i])
		}
	}
	return out
}
