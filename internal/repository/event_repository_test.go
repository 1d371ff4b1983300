package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveillance-dashboard/internal/config"
	"surveillance-dashboard/internal/db"
	"surveillance-dashboard/internal/model"
)

func setupRepo(t *testing.T) *EventRepository {
	t.Helper()

	cfg := &config.Config{
		DB: config.DBConfig{
			Driver:      "sqlite",
			DSN:         filepath.Join(t.TempDir(), "events.db"),
			AutoMigrate: true,
		},
	}
	dbm := db.NewManager(cfg, zerolog.Nop())
	t.Cleanup(func() { _ = dbm.Close() })

	return NewEventRepository(dbm)
}

func insert(t *testing.T, repo *EventRepository, events ...model.Event) {
	t.Helper()
	for i := range events {
		require.NoError(t, repo.Create(context.Background(), &events[i]))
	}
}

func TestRecent_OrderedNewestFirst(t *testing.T) {
	repo := setupRepo(t)
	now := time.Now().UTC().Truncate(time.Second)

	insert(t, repo,
		model.Event{ID: "a", CameraID: "Camera 1", Timestamp: now.Add(-3 * time.Hour), EventType: "Human", AlertLevel: "Low"},
		model.Event{ID: "b", CameraID: "Camera 2", Timestamp: now.Add(-1 * time.Hour), EventType: "Vehicle", AlertLevel: "High", Alert: true},
		model.Event{ID: "c", CameraID: "Camera 1", Timestamp: now.Add(-2 * time.Hour), EventType: "Animal", AlertLevel: "Medium", Alert: true},
	)

	events, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{events[0].ID, events[1].ID, events[2].ID})
	assert.True(t, events[0].Timestamp.Equal(now.Add(-1*time.Hour)))

	limited, err := repo.Recent(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, "b", limited[0].ID)
}

func TestRecent_ZeroLimit(t *testing.T) {
	repo := setupRepo(t)

	events, err := repo.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestOverallStats_WindowAndCounts(t *testing.T) {
	repo := setupRepo(t)
	now := time.Now().UTC().Truncate(time.Second)

	insert(t, repo,
		model.Event{ID: "1", CameraID: "Camera 1", Timestamp: now.Add(-time.Hour), EventType: "Vehicle", AlertLevel: "High", Alert: true},
		model.Event{ID: "2", CameraID: "Camera 2", Timestamp: now.Add(-2 * time.Hour), EventType: "human", AlertLevel: "LOW"},
		model.Event{ID: "3", CameraID: "Camera 2", Timestamp: now.Add(-3 * time.Hour), EventType: "Animal", AlertLevel: "medium", Alert: true},
		model.Event{ID: "old", CameraID: "Camera 3", Timestamp: now.Add(-48 * time.Hour), EventType: "Vehicle", AlertLevel: "High", Alert: true},
	)

	stats, err := repo.OverallStats(context.Background(), now.Add(-24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalDetections)
	assert.Equal(t, int64(1), stats.VehicleDetections)
	assert.Equal(t, int64(1), stats.HumanDetections)
	assert.Equal(t, int64(1), stats.AnimalDetections)
	assert.Equal(t, int64(1), stats.HighAlerts)
	assert.Equal(t, int64(1), stats.MediumAlerts)
	assert.Equal(t, int64(1), stats.LowAlerts)
	assert.Equal(t, int64(2), stats.ActiveCameras)
}

func TestOverallStats_BoundaryInclusive(t *testing.T) {
	repo := setupRepo(t)
	cutoff := time.Now().UTC().Truncate(time.Second).Add(-24 * time.Hour)

	insert(t, repo,
		model.Event{ID: "edge", CameraID: "Camera 1", Timestamp: cutoff, EventType: "Human", AlertLevel: "Low"},
		model.Event{ID: "before", CameraID: "Camera 1", Timestamp: cutoff.Add(-time.Second), EventType: "Human", AlertLevel: "Low"},
	)

	stats, err := repo.OverallStats(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalDetections)
}

func TestOverallStats_EmptyLog(t *testing.T) {
	repo := setupRepo(t)

	stats, err := repo.OverallStats(context.Background(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.OverallStats{}, stats)
}

func TestCameraStats_GroupedWithoutWindow(t *testing.T) {
	repo := setupRepo(t)
	now := time.Now().UTC().Truncate(time.Second)

	insert(t, repo,
		model.Event{ID: "1", CameraID: "Camera 2", Timestamp: now, EventType: "Vehicle", AlertLevel: "High", Alert: true},
		model.Event{ID: "2", CameraID: "Camera 1", Timestamp: now, EventType: "Human", AlertLevel: "Low"},
		model.Event{ID: "3", CameraID: "Camera 1", Timestamp: now.Add(-72 * time.Hour), EventType: "Human", AlertLevel: "Medium", Alert: true},
	)

	stats, err := repo.CameraStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "Camera 1", stats[0].CameraID)
	assert.Equal(t, int64(2), stats[0].TotalDetections)
	assert.Equal(t, int64(2), stats[0].HumanDetections)
	assert.Equal(t, int64(1), stats[0].MediumAlerts)
	assert.Equal(t, int64(1), stats[0].LowAlerts)

	assert.Equal(t, "Camera 2", stats[1].CameraID)
	assert.Equal(t, int64(1), stats[1].HighAlerts)
	assert.Equal(t, int64(1), stats[1].VehicleDetections)
}

func TestListByCamera_And_DistinctIDs(t *testing.T) {
	repo := setupRepo(t)
	now := time.Now().UTC().Truncate(time.Second)

	insert(t, repo,
		model.Event{ID: "1", CameraID: "Camera 2", Timestamp: now.Add(-time.Hour), EventType: "Vehicle", AlertLevel: "Low"},
		model.Event{ID: "2", CameraID: "Camera 1", Timestamp: now.Add(-2 * time.Hour), EventType: "Human", AlertLevel: "Low"},
		model.Event{ID: "3", CameraID: "Camera 2", Timestamp: now, EventType: "Animal", AlertLevel: "Low"},
	)

	events, err := repo.ListByCamera(context.Background(), "Camera 2")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "3", events[0].ID)
	assert.Equal(t, "1", events[1].ID)

	ids, err := repo.DistinctCameraIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Camera 1", "Camera 2"}, ids)
}

func TestCreate_DuplicateIDFails(t *testing.T) {
	repo := setupRepo(t)
	now := time.Now().UTC()

	insert(t, repo, model.Event{ID: "dup", CameraID: "Camera 1", Timestamp: now})
	err := repo.Create(context.Background(), &model.Event{ID: "dup", CameraID: "Camera 1", Timestamp: now})
	assert.Error(t, err)
}

func TestCreate_GeneratesID(t *testing.T) {
	repo := setupRepo(t)

	event := model.Event{CameraID: "Camera 1", Timestamp: time.Now().UTC()}
	require.NoError(t, repo.Create(context.Background(), &event))
	assert.NotEmpty(t, event.ID)
}

func TestRepository_ClosedManager(t *testing.T) {
	cfg := &config.Config{
		DB: config.DBConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "x.db"), AutoMigrate: true},
	}
	dbm := db.NewManager(cfg, zerolog.Nop())
	require.NoError(t, dbm.Close())

	repo := NewEventRepository(dbm)
	_, err := repo.Recent(context.Background(), 5)
	assert.ErrorIs(t, err, db.ErrClosed)
}
