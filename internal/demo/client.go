package demo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/okian/classwatch/internal/domain/model"
)

// Submission outcomes reported by the API.
type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeDuplicate
	outcomeFailed
)

// errStatus reports an unexpected HTTP status.
var errStatus = errors.New("unexpected status")

// categoryPayload and observationPayload mirror the POST /observations body.
type categoryPayload struct {
	Category        string  `json:"category"`
	Score           float64 `json:"score"`
	IsAutoSuggested bool    `json:"is_auto_suggested,omitempty"`
}

type observationPayload struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	Timestamp   string            `json:"timestamp"`
	Categories  []categoryPayload `json:"categories"`
	Tags        []string          `json:"tags,omitempty"`
}

func toPayload(o *model.Observation) observationPayload {
	p := observationPayload{
		ID:          o.ID,
		StudentID:   o.StudentID,
		StudentName: o.StudentName,
		Timestamp:   o.Timestamp.Format(time.RFC3339),
		Categories:  make([]categoryPayload, len(o.Categories)),
		Tags:        o.Tags,
	}
	for i, c := range o.Categories {
		p.Categories[i] = categoryPayload{Category: c.Category, Score: c.Score, IsAutoSuggested: c.IsAutoSuggested}
	}
	return p
}

// alertPayload is the subset of an alert the runner reports on.
type alertPayload struct {
	StudentName string  `json:"student_name"`
	AlertType   string  `json:"alert_type"`
	Category    string  `json:"category"`
	Severity    string  `json:"severity"`
	Message     string  `json:"message"`
	Score       float64 `json:"score"`
}

// httpClient wraps http.Client with JSON helpers.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *httpClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var r io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.client.Do(req)
}

// getJSON decodes the body of a 200 response into v.
func (c *httpClient) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s returned %d", errStatus, path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *httpClient) submit(ctx context.Context, o *model.Observation) outcome {
	resp, err := c.do(ctx, http.MethodPost, "/observations", toPayload(o))
	if err != nil {
		return outcomeFailed
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusAccepted:
		return outcomeAccepted
	case http.StatusOK:
		return outcomeDuplicate
	default:
		return outcomeFailed
	}
}
