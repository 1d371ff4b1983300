package view

import (
	"github.com/shopspring/decimal"

	"surveillance-dashboard/internal/model"
)

// Series is one named point of a chart.
type Series struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type Overview struct {
	SelectedCamera string         `json:"selected_camera,omitempty"`
	Detections     int64          `json:"detections"`
	ByType         []Series       `json:"by_type"`
	AlertLevels    []Series       `json:"alert_levels"`
	ActiveAlerts   int64          `json:"active_alerts"`
	ActiveCameras  int64          `json:"active_cameras"`
	AlertRate      int64          `json:"alert_rate"`
	Cameras        []model.Camera `json:"cameras"`
	RecentEvents   []model.Event  `json:"recent_events"`
}

// Percent returns round(part/total*100), 0 when total is 0.
func Percent(part, total int64) int64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(0).
		IntPart()
}

// AlertRate is the share of high and medium alerts among all detections.
func AlertRate(c model.DetectionCounts) int64 {
	return Percent(c.ActiveAlerts(), c.TotalDetections)
}

// BuildOverview derives the overview screen. With an empty cameraID the
// overall 24h stats are shown, otherwise the camera's row; a camera with no
// row gets zero counts. The alert level chart always reflects overall stats.
func BuildOverview(snap model.Snapshot, cameraID string) Overview {
	counts := snap.Overall.DetectionCounts
	activeCameras := snap.Overall.ActiveCameras
	events := snap.RecentEvents

	if cameraID != "" {
		counts = model.DetectionCounts{}
		for _, s := range snap.CameraStats {
			if s.CameraID == cameraID {
				counts = s.DetectionCounts
				break
			}
		}
		activeCameras = 1
		events = filterByCamera(snap.RecentEvents, cameraID)
	}

	return Overview{
		SelectedCamera: cameraID,
		Detections:     counts.TotalDetections,
		ByType: []Series{
			{Name: model.EventTypeHuman, Value: counts.HumanDetections},
			{Name: model.EventTypeVehicle, Value: counts.VehicleDetections},
			{Name: model.EventTypeAnimal, Value: counts.AnimalDetections},
		},
		AlertLevels: []Series{
			{Name: model.AlertLevelHigh, Value: snap.Overall.HighAlerts},
			{Name: model.AlertLevelMedium, Value: snap.Overall.MediumAlerts},
			{Name: model.AlertLevelLow, Value: snap.Overall.LowAlerts},
		},
		ActiveAlerts:  counts.ActiveAlerts(),
		ActiveCameras: activeCameras,
		AlertRate:     AlertRate(counts),
		Cameras:       nonNil(snap.Cameras),
		RecentEvents:  events,
	}
}

func filterByCamera(events []model.Event, cameraID string) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.CameraID == cameraID {
			out = append(out, e)
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
