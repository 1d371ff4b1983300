package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"surveillance-dashboard/internal/model"
)

var errBoom = errors.New("boom")

// fakeRepository keeps events in memory. failing lists the methods that
// return errBoom.
type fakeRepository struct {
	mu      sync.Mutex
	events  []model.Event
	failing map[string]bool
	since   time.Time
	panicOn string
}

func newFakeRepository(events ...model.Event) *fakeRepository {
	return &fakeRepository{events: events, failing: map[string]bool{}}
}

func (f *fakeRepository) check(op string) error {
	if f.panicOn == op {
		panic("unexpected " + op)
	}
	if f.failing[op] {
		return errBoom
	}
	return nil
}

func (f *fakeRepository) Create(_ context.Context, event *model.Event) error {
	if err := f.check("create"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeRepository) OverallStats(_ context.Context, since time.Time) (model.OverallStats, error) {
	if err := f.check("overall"); err != nil {
		return model.OverallStats{}, err
	}
	f.since = since
	var stats model.OverallStats
	cams := map[string]struct{}{}
	for _, e := range f.events {
		if e.Timestamp.Before(since) {
			continue
		}
		add(&stats.DetectionCounts, e)
		cams[e.CameraID] = struct{}{}
	}
	stats.ActiveCameras = int64(len(cams))
	return stats, nil
}

func (f *fakeRepository) CameraStats(context.Context) ([]model.CameraStats, error) {
	if err := f.check("camera_stats"); err != nil {
		return nil, err
	}
	byCam := map[string]*model.CameraStats{}
	var ids []string
	for _, e := range f.events {
		s, ok := byCam[e.CameraID]
		if !ok {
			s = &model.CameraStats{CameraID: e.CameraID}
			byCam[e.CameraID] = s
			ids = append(ids, e.CameraID)
		}
		add(&s.DetectionCounts, e)
	}
	sort.Strings(ids)
	out := make([]model.CameraStats, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byCam[id])
	}
	return out, nil
}

func (f *fakeRepository) Recent(_ context.Context, limit int) ([]model.Event, error) {
	if err := f.check("recent"); err != nil {
		return nil, err
	}
	out := append([]model.Event(nil), f.events...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepository) ListByCamera(_ context.Context, cameraID string) ([]model.Event, error) {
	if err := f.check("by_camera"); err != nil {
		return nil, err
	}
	var out []model.Event
	for _, e := range f.events {
		if e.CameraID == cameraID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepository) DistinctCameraIDs(context.Context) ([]string, error) {
	if err := f.check("distinct"); err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var ids []string
	for _, e := range f.events {
		if _, ok := seen[e.CameraID]; !ok {
			seen[e.CameraID] = struct{}{}
			ids = append(ids, e.CameraID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func add(c *model.DetectionCounts, e model.Event) {
	c.TotalDetections++
	switch e.EventType {
	case model.EventTypeVehicle:
		c.VehicleDetections++
	case model.EventTypeHuman:
		c.HumanDetections++
	case model.EventTypeAnimal:
		c.AnimalDetections++
	}
	switch model.CanonicalAlertLevel(e.AlertLevel) {
	case model.AlertLevelHigh:
		c.HighAlerts++
	case model.AlertLevelMedium:
		c.MediumAlerts++
	case model.AlertLevelLow:
		c.LowAlerts++
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}
