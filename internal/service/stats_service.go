package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"surveillance-dashboard/internal/metrics"
	"surveillance-dashboard/internal/model"
)

type StatsService struct {
	accessor    *Accessor
	recentLimit int
	log         zerolog.Logger
}

func NewStatsService(accessor *Accessor, recentLimit int, log zerolog.Logger) *StatsService {
	if recentLimit <= 0 {
		recentLimit = 50
	}
	return &StatsService{
		accessor:    accessor,
		recentLimit: recentLimit,
		log:         log.With().Str("component", "stats").Logger(),
	}
}

// WithDefault resolves a read result: on failure the error is logged,
// counted under query and def is returned.
func WithDefault[T any](log zerolog.Logger, query string, r Result[T], def T) T {
	if r.OK() {
		return r.Value
	}
	metrics.StorageFallbacksTotal.WithLabelValues(query).Inc()
	log.Warn().Err(r.Err).Str("query", query).Msg("using default value")
	return def
}

// Snapshot assembles the dashboard snapshot. Each query fails on its own;
// an unexpected panic yields the fully defaulted snapshot.
func (s *StatsService) Snapshot(ctx context.Context) (snap model.Snapshot) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error().Interface("panic", rec).Msg("snapshot failed")
			snap = model.EmptySnapshot()
		}
		metrics.SnapshotDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	defaults := s.accessor.Defaults()

	snap.Overall = WithDefault(s.log, "overall_stats", s.accessor.OverallStats(ctx), defaults.Overall)
	snap.Cameras = WithDefault(s.log, "camera_directory", s.accessor.CameraDirectory(ctx), defaults.Cameras)
	snap.CameraStats = WithDefault(s.log, "camera_stats", s.accessor.PerCameraStats(ctx), defaults.CameraStats)
	snap.RecentEvents = WithDefault(s.log, "recent_events", s.accessor.RecentEvents(ctx, s.recentLimit), defaults.RecentEvents)

	return normalizeSnapshot(snap)
}

func (s *StatsService) Cameras(ctx context.Context) []model.Camera {
	cameras := WithDefault(s.log, "camera_directory", s.accessor.CameraDirectory(ctx), s.accessor.Defaults().Cameras)
	if cameras == nil {
		return []model.Camera{}
	}
	return cameras
}

func (s *StatsService) CameraEvents(ctx context.Context, cameraID string) []model.Event {
	events := WithDefault(s.log, "camera_events", s.accessor.CameraEvents(ctx, cameraID), []model.Event{})
	if events == nil {
		return []model.Event{}
	}
	return events
}

// normalizeSnapshot replaces nil lists so the JSON never carries null.
func normalizeSnapshot(snap model.Snapshot) model.Snapshot {
	if snap.Cameras == nil {
		snap.Cameras = []model.Camera{}
	}
	if snap.CameraStats == nil {
		snap.CameraStats = []model.CameraStats{}
	}
	if snap.RecentEvents == nil {
		snap.RecentEvents = []model.Event{}
	}
	return snap
}
