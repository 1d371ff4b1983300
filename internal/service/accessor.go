package service

import (
	"context"
	"fmt"
	"time"

	"surveillance-dashboard/internal/config"
	"surveillance-dashboard/internal/model"
)

// EventRepository is the storage surface the accessor needs.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	OverallStats(ctx context.Context, since time.Time) (model.OverallStats, error)
	CameraStats(ctx context.Context) ([]model.CameraStats, error)
	Recent(ctx context.Context, limit int) ([]model.Event, error)
	ListByCamera(ctx context.Context, cameraID string) ([]model.Event, error)
	DistinctCameraIDs(ctx context.Context) ([]string, error)
}

// StatsWindow is the rolling window of the overall stats. The lower bound
// is inclusive.
const StatsWindow = 24 * time.Hour

// Result is the outcome of one read query. Err is always wrapped in
// ErrStorage.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Or returns Value, or def when the query failed.
func (r Result[T]) Or(def T) T {
	if r.Err != nil {
		return def
	}
	return r.Value
}

func resultOf[T any](op string, v T, err error) Result[T] {
	if err != nil {
		return Result[T]{Err: storageError(op, err)}
	}
	return Result[T]{Value: v}
}

// Accessor runs the read queries of the dashboard and builds the camera
// directory. Reads never panic on storage failures, they report them in
// the Result.
type Accessor struct {
	repo    EventRepository
	cameras config.CameraTable
	now     func() time.Time
}

func NewAccessor(repo EventRepository, cameras config.CameraTable) *Accessor {
	return &Accessor{
		repo:    repo,
		cameras: cameras,
		now:     time.Now,
	}
}

func (a *Accessor) RecordEvent(ctx context.Context, event *model.Event) error {
	if err := a.repo.Create(ctx, event); err != nil {
		return storageError("record event", err)
	}
	return nil
}

func (a *Accessor) OverallStats(ctx context.Context) Result[model.OverallStats] {
	since := a.now().UTC().Add(-StatsWindow)
	stats, err := a.repo.OverallStats(ctx, since)
	return resultOf("overall stats", stats, err)
}

func (a *Accessor) PerCameraStats(ctx context.Context) Result[[]model.CameraStats] {
	stats, err := a.repo.CameraStats(ctx)
	if stats == nil {
		stats = []model.CameraStats{}
	}
	return resultOf("camera stats", stats, err)
}

func (a *Accessor) RecentEvents(ctx context.Context, limit int) Result[[]model.Event] {
	events, err := a.repo.Recent(ctx, limit)
	if events == nil {
		events = []model.Event{}
	}
	return resultOf("recent events", events, err)
}

func (a *Accessor) CameraEvents(ctx context.Context, cameraID string) Result[[]model.Event] {
	events, err := a.repo.ListByCamera(ctx, cameraID)
	if events == nil {
		events = []model.Event{}
	}
	return resultOf("camera events", events, err)
}

func (a *Accessor) CameraDirectory(ctx context.Context) Result[[]model.Camera] {
	ids, err := a.repo.DistinctCameraIDs(ctx)
	if err != nil {
		return Result[[]model.Camera]{Err: storageError("camera directory", err)}
	}
	return Result[[]model.Camera]{Value: BuildCameraDirectory(ids, a.cameras, a.now())}
}

// Defaults returns the values substituted for failed reads.
func (a *Accessor) Defaults() Defaults {
	return Defaults{
		Overall:      model.OverallStats{},
		CameraStats:  []model.CameraStats{},
		RecentEvents: []model.Event{},
		Cameras:      DefaultCameraDirectory(a.cameras, a.now()),
	}
}

type Defaults struct {
	Overall      model.OverallStats
	CameraStats  []model.CameraStats
	RecentEvents []model.Event
	Cameras      []model.Camera
}

// BuildCameraDirectory joins observed camera ids with the camera table.
// Ids missing from the table get the table's default location.
func BuildCameraDirectory(ids []string, table config.CameraTable, now time.Time) []model.Camera {
	cameras := make([]model.Camera, 0, len(ids))
	for _, id := range ids {
		loc, _ := table.Lookup(id)
		cameras = append(cameras, cameraFrom(id, loc, now))
	}
	return cameras
}

// DefaultCameraDirectory is the directory served when the event log cannot
// be read: every camera of the table.
func DefaultCameraDirectory(table config.CameraTable, now time.Time) []model.Camera {
	cameras := make([]model.Camera, 0, len(table.Cameras))
	for _, loc := range table.Cameras {
		cameras = append(cameras, cameraFrom(loc.CameraID, loc, now))
	}
	return cameras
}

func cameraFrom(id string, loc config.CameraLocation, now time.Time) model.Camera {
	return model.Camera{
		CameraID:  id,
		Name:      fmt.Sprintf("%s (%s)", loc.Address, id),
		Status:    model.CameraStatusActive,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Address:   loc.Address,
		LastPing:  now.UTC(),
	}
}
