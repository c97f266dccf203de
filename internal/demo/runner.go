package demo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/okian/classwatch/internal/domain/model"
	"github.com/okian/classwatch/pkg/logger"
)

// Runner defaults.
const (
	defaultTimeout      = 10 * time.Second
	defaultWaitTimeout  = 30 * time.Second
	defaultPollInterval = 200 * time.Millisecond
	filePermission      = 0o600
	dirPermission       = 0o750
)

// RunnerConfig controls a demo run against a live service.
type RunnerConfig struct {
	BaseURL      string        // base URL of the service
	Workers      int           // concurrent submitters
	Timeout      time.Duration // per-request timeout
	WaitTimeout  time.Duration // how long to wait for the cohort to be stored
	PollInterval time.Duration // /stats polling interval
	OutputFile   string        // optional JSON dump of the submitted cohort
}

func (c *RunnerConfig) normalize() {
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = defaultWaitTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
}

// RunStats summarizes a demo run.
type RunStats struct {
	Submitted  int
	Accepted   int
	Duplicate  int
	Failed     int
	Stored     int
	Alerts     int
	HighAlerts int
	Duration   time.Duration
}

// Run submits records to the service at cfg.BaseURL, waits until the
// service reports them stored and logs the resulting alerts.
func Run(ctx context.Context, cfg RunnerConfig, records []model.Observation) (*RunStats, error) {
	cfg.normalize()
	log := logger.Get().Named("demo")
	start := time.Now()
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting demo run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("observations", len(records)),
		logger.Int("workers", cfg.Workers))

	var health map[string]any
	if err := client.getJSON(ctx, "/healthz", &health); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	before, err := storedCount(ctx, client)
	if err != nil {
		return nil, err
	}

	stats := submitAll(ctx, client, cfg.Workers, records)
	log.Info(ctx, "submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("failed", stats.Failed))

	stored, err := waitForStored(ctx, client, before+stats.Accepted, cfg.WaitTimeout, cfg.PollInterval)
	if err != nil {
		return stats, err
	}
	stats.Stored = stored

	var alerts []alertPayload
	if err := client.getJSON(ctx, "/alerts", &alerts); err != nil {
		return stats, fmt.Errorf("fetch alerts: %w", err)
	}
	stats.Alerts = len(alerts)
	for _, a := range alerts {
		if a.Severity == "high" {
			stats.HighAlerts++
			log.Info(ctx, "high severity alert",
				logger.String("student", a.StudentName),
				logger.String("type", a.AlertType),
				logger.String("category", a.Category),
				logger.Float64("score", a.Score))
		}
	}

	if cfg.OutputFile != "" {
		if err := SaveRecords(cfg.OutputFile, records); err != nil {
			log.Warn(ctx, "failed to save cohort", logger.Error(err))
		}
	}

	stats.Duration = time.Since(start)
	log.Info(ctx, "demo run completed",
		logger.Int("stored", stats.Stored),
		logger.Int("alerts", stats.Alerts),
		logger.Int("highAlerts", stats.HighAlerts),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}

func submitAll(ctx context.Context, client *httpClient, workers int, records []model.Observation) *RunStats {
	var accepted, duplicate, failed atomic.Int64

	jobs := make(chan *model.Observation, workers*2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for o := range jobs {
				switch client.submit(ctx, o) {
				case outcomeAccepted:
					accepted.Add(1)
				case outcomeDuplicate:
					duplicate.Add(1)
				case outcomeFailed:
					failed.Add(1)
				}
			}
		}()
	}

	submitted := 0
	for i := range records {
		if ctx.Err() != nil {
			break
		}
		jobs <- &records[i]
		submitted++
	}
	close(jobs)
	wg.Wait()

	return &RunStats{
		Submitted: submitted,
		Accepted:  int(accepted.Load()),
		Duplicate: int(duplicate.Load()),
		Failed:    int(failed.Load()),
	}
}

func storedCount(ctx context.Context, client *httpClient) (int, error) {
	var stats map[string]any
	if err := client.getJSON(ctx, "/stats", &stats); err != nil {
		return 0, fmt.Errorf("fetch stats: %w", err)
	}
	n, _ := stats["observations"].(float64)
	return int(n), nil
}

func waitForStored(ctx context.Context, client *httpClient, want int, timeout, interval time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		n, err := storedCount(ctx, client)
		if err == nil && n >= want {
			return n, nil
		}
		select {
		case <-ctx.Done():
			return n, fmt.Errorf("waiting for %d stored observations, have %d: %w", want, n, ctx.Err())
		case <-ticker.C:
		}
	}
}

// SaveRecords writes records to path as an indented JSON array in the
// POST /observations shape.
func SaveRecords(path string, records []model.Observation) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	payloads := make([]observationPayload, len(records))
	for i := range records {
		payloads[i] = toPayload(&records[i])
	}
	data, err := json.MarshalIndent(payloads, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cohort: %w", err)
	}
	return os.WriteFile(path, data, filePermission)
}
