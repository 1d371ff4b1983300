package model

import "time"

// DetectionCounts is the shared shape of overall and per-camera stats.
type DetectionCounts struct {
	TotalDetections   int64 `json:"total_detections"`
	VehicleDetections int64 `json:"vehicle_detections"`
	HumanDetections   int64 `json:"human_detections"`
	AnimalDetections  int64 `json:"animal_detections"`
	HighAlerts        int64 `json:"high_alerts"`
	MediumAlerts      int64 `json:"medium_alerts"`
	LowAlerts         int64 `json:"low_alerts"`
}

// ActiveAlerts counts high and medium alerts.
func (c DetectionCounts) ActiveAlerts() int64 {
	return c.HighAlerts + c.MediumAlerts
}

type OverallStats struct {
	DetectionCounts
	ActiveCameras int64 `json:"active_cameras"`
}

type CameraStats struct {
	CameraID string `json:"camera_id"`
	DetectionCounts
}

// Camera is synthesized from the event log and the camera table, it is
// never persisted.
type Camera struct {
	CameraID  string    `json:"camera_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address"`
	LastPing  time.Time `json:"last_ping"`
}

const CameraStatusActive = "active"

type Snapshot struct {
	Overall      OverallStats  `json:"overall"`
	Cameras      []Camera      `json:"cameras"`
	CameraStats  []CameraStats `json:"cameraStats"`
	RecentEvents []Event       `json:"recentEvents"`
}

// EmptySnapshot is the fully defaulted response: zero counters and empty,
// non-nil lists.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Cameras:      []Camera{},
		CameraStats:  []CameraStats{},
		RecentEvents: []Event{},
	}
}
