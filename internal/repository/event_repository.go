package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"surveillance-dashboard/internal/db"
	"surveillance-dashboard/internal/model"
)

// countColumns is shared by the overall and per-camera aggregates. Type and
// level comparisons ignore case, legacy rows carry upper-cased levels.
const countColumns = `
	COUNT(*) AS total_detections,
	COALESCE(SUM(CASE WHEN LOWER(e.event_type) = 'vehicle' THEN 1 ELSE 0 END), 0) AS vehicle_detections,
	COALESCE(SUM(CASE WHEN LOWER(e.event_type) = 'human' THEN 1 ELSE 0 END), 0) AS human_detections,
	COALESCE(SUM(CASE WHEN LOWER(e.event_type) = 'animal' THEN 1 ELSE 0 END), 0) AS animal_detections,
	COALESCE(SUM(CASE WHEN LOWER(e.alert_level) = 'high' THEN 1 ELSE 0 END), 0) AS high_alerts,
	COALESCE(SUM(CASE WHEN LOWER(e.alert_level) = 'medium' THEN 1 ELSE 0 END), 0) AS medium_alerts,
	COALESCE(SUM(CASE WHEN LOWER(e.alert_level) = 'low' THEN 1 ELSE 0 END), 0) AS low_alerts`

type countsRow struct {
	CameraID          string
	TotalDetections   int64
	VehicleDetections int64
	HumanDetections   int64
	AnimalDetections  int64
	HighAlerts        int64
	MediumAlerts      int64
	LowAlerts         int64
	ActiveCameras     int64
}

func (r countsRow) counts() model.DetectionCounts {
	return model.DetectionCounts{
		TotalDetections:   r.TotalDetections,
		VehicleDetections: r.VehicleDetections,
		HumanDetections:   r.HumanDetections,
		AnimalDetections:  r.AnimalDetections,
		HighAlerts:        r.HighAlerts,
		MediumAlerts:      r.MediumAlerts,
		LowAlerts:         r.LowAlerts,
	}
}

type EventRepository struct {
	dbm *db.Manager
}

func NewEventRepository(dbm *db.Manager) *EventRepository {
	return &EventRepository{dbm: dbm}
}

func (r *EventRepository) conn(ctx context.Context) (*gorm.DB, error) {
	database, err := r.dbm.Get()
	if err != nil {
		return nil, err
	}
	return database.WithContext(ctx), nil
}

func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	conn, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return conn.Create(event).Error
}

// OverallStats aggregates events with time >= since.
func (r *EventRepository) OverallStats(ctx context.Context, since time.Time) (model.OverallStats, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return model.OverallStats{}, err
	}

	var row countsRow
	err = conn.Table("events e").
		Select(countColumns+`,
			COUNT(DISTINCT e.camera_id) AS active_cameras`).
		Where("e.time >= ?", since).
		Scan(&row).Error
	if err != nil {
		return model.OverallStats{}, err
	}

	return model.OverallStats{
		DetectionCounts: row.counts(),
		ActiveCameras:   row.ActiveCameras,
	}, nil
}

func (r *EventRepository) CameraStats(ctx context.Context) ([]model.CameraStats, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var rows []countsRow
	err = conn.Table("events e").
		Select("e.camera_id AS camera_id," + countColumns).
		Group("e.camera_id").
		Order("e.camera_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]model.CameraStats, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, model.CameraStats{
			CameraID:        row.CameraID,
			DetectionCounts: row.counts(),
		})
	}
	return stats, nil
}

func (r *EventRepository) Recent(ctx context.Context, limit int) ([]model.Event, error) {
	if limit <= 0 {
		return []model.Event{}, nil
	}
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, limit)
	err = conn.
		Order("events.time DESC").
		Order("events.uuid DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) ListByCamera(ctx context.Context, cameraID string) ([]model.Event, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var events []model.Event
	err = conn.
		Where("camera_id = ?", cameraID).
		Order("events.time DESC").
		Order("events.uuid DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) DistinctCameraIDs(ctx context.Context) ([]string, error) {
	conn, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	err = conn.Model(&model.Event{}).
		Distinct("camera_id").
		Order("camera_id").
		Pluck("camera_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
