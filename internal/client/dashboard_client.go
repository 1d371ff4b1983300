package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"surveillance-dashboard/internal/model"
)

var ErrNotConfigured = errors.New("dashboard URL is not configured")

// ErrorResponse is the error body returned by the dashboard API.
type ErrorResponse struct {
	Error string `json:"error"`
}

type IngestResponse struct {
	Success bool `json:"success"`
}

// EventInput is the body of POST /api/events.
type EventInput struct {
	ID         string `json:"id,omitempty"`
	CameraID   string `json:"camera_id"`
	Timestamp  string `json:"timestamp,omitempty"`
	EventType  string `json:"event_type"`
	Details    string `json:"details"`
	AlertLevel string `json:"alert_level"`
}

// DashboardClient talks to a running dashboard over HTTP.
type DashboardClient struct {
	HTTP    *resty.Client
	baseURL string
}

func NewDashboardClient(baseURL string, timeout time.Duration) *DashboardClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r := resty.New()
	r.SetBaseURL(baseURL)
	r.SetTimeout(timeout)
	r.SetHeader("Accept", "application/json")
	return &DashboardClient{HTTP: r, baseURL: baseURL}
}

func (c *DashboardClient) check() error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	return nil
}

func responseError(op string, resp *resty.Response) error {
	if e, ok := resp.Error().(*ErrorResponse); ok && e.Error != "" {
		return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode(), e.Error)
	}
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode(), resp.String())
}

// Snapshot fetches GET /api/stats.
func (c *DashboardClient) Snapshot(ctx context.Context) (model.Snapshot, error) {
	if err := c.check(); err != nil {
		return model.Snapshot{}, err
	}

	var snap model.Snapshot
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&snap).
		SetError(&ErrorResponse{}).
		Get("/api/stats")
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("fetch stats: %w", err)
	}
	if resp.IsError() {
		return model.Snapshot{}, responseError("fetch stats", resp)
	}
	return snap, nil
}

// PushEvent posts one detection to the ingest endpoint.
func (c *DashboardClient) PushEvent(ctx context.Context, in EventInput) error {
	if err := c.check(); err != nil {
		return err
	}

	var out IngestResponse
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(in).
		SetResult(&out).
		SetError(&ErrorResponse{}).
		Post("/api/events")
	if err != nil {
		return fmt.Errorf("push event: %w", err)
	}
	if resp.IsError() {
		return responseError("push event", resp)
	}
	if !out.Success {
		return fmt.Errorf("push event: not accepted")
	}
	return nil
}

// CameraEvents fetches GET /api/cameras/:id/events.
func (c *DashboardClient) CameraEvents(ctx context.Context, cameraID string) ([]model.Event, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	var out struct {
		Data []model.Event `json:"data"`
	}
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetPathParam("id", cameraID).
		SetResult(&out).
		SetError(&ErrorResponse{}).
		Get("/api/cameras/{id}/events")
	if err != nil {
		return nil, fmt.Errorf("fetch camera events: %w", err)
	}
	if resp.IsError() {
		return nil, responseError("fetch camera events", resp)
	}
	return out.Data, nil
}
