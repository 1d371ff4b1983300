package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"surveillance-dashboard/internal/db"
	"surveillance-dashboard/internal/model"
)

func setupMockRepo(t *testing.T) (*EventRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewEventRepository(db.NewManagerWith(gdb)), mock
}

func TestOverallStats_Postgres(t *testing.T) {
	repo, mock := setupMockRepo(t)
	since := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"total_detections", "vehicle_detections", "human_detections", "animal_detections",
		"high_alerts", "medium_alerts", "low_alerts", "active_cameras",
	}).AddRow(5, 2, 2, 1, 1, 1, 3, 2)
	mock.ExpectQuery(`SELECT .* FROM events e WHERE e\.time >= \$1`).
		WithArgs(since).
		WillReturnRows(rows)

	stats, err := repo.OverallStats(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, model.OverallStats{
		DetectionCounts: model.DetectionCounts{
			TotalDetections: 5, VehicleDetections: 2, HumanDetections: 2, AnimalDetections: 1,
			HighAlerts: 1, MediumAlerts: 1, LowAlerts: 3,
		},
		ActiveCameras: 2,
	}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueries_PropagateDriverErrors(t *testing.T) {
	repo, mock := setupMockRepo(t)
	boom := errors.New("connection reset by peer")

	mock.ExpectQuery(`SELECT .* FROM events e`).WillReturnError(boom)
	_, err := repo.OverallStats(context.Background(), time.Now())
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery(`SELECT .* GROUP BY "e"\."camera_id"|SELECT .* GROUP BY e\.camera_id`).WillReturnError(boom)
	_, err = repo.CameraStats(context.Background())
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery(`SELECT \* FROM "events"`).WillReturnError(boom)
	_, err = repo.Recent(context.Background(), 5)
	assert.ErrorIs(t, err, boom)

	mock.ExpectExec(`INSERT INTO "events"`).WillReturnError(boom)
	err = repo.Create(context.Background(), &model.Event{ID: "x", CameraID: "Camera 1", Timestamp: time.Now()})
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}
