package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveillance-dashboard/internal/model"
)

var now = time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

func sampleSnapshot() model.Snapshot {
	return model.Snapshot{
		Overall: model.OverallStats{
			DetectionCounts: model.DetectionCounts{TotalDetections: 4, HumanDetections: 2, VehicleDetections: 1, AnimalDetections: 1, HighAlerts: 1, MediumAlerts: 1, LowAlerts: 2},
			ActiveCameras:   3,
		},
		Cameras: []model.Camera{
			{CameraID: "Camera 1", Name: "Main Gate (Camera 1)", Status: "active", Latitude: 33.5, Longitude: 73.1, LastPing: now},
			{CameraID: "Camera 2", Name: "Parking Area (Camera 2)", Status: "active", Latitude: 33.6, Longitude: 73.3, LastPing: now},
		},
		CameraStats: []model.CameraStats{
			{CameraID: "Camera 1", DetectionCounts: model.DetectionCounts{TotalDetections: 2, HumanDetections: 2, HighAlerts: 1, LowAlerts: 1}},
			{CameraID: "Camera 2", DetectionCounts: model.DetectionCounts{TotalDetections: 1, VehicleDetections: 1, MediumAlerts: 1}},
			{CameraID: "Camera 9", DetectionCounts: model.DetectionCounts{TotalDetections: 1, AnimalDetections: 1, LowAlerts: 1}},
		},
		RecentEvents: []model.Event{
			{ID: "a", CameraID: "Camera 1", Timestamp: now.Add(-10 * time.Minute), EventType: "Human", Details: "person at gate", AlertLevel: "High", Alert: true},
			{ID: "b", CameraID: "Camera 2", Timestamp: now.Add(-2 * time.Hour), EventType: "Vehicle", Details: "car parked", AlertLevel: "Medium", Alert: true},
			{ID: "c", CameraID: "Camera 9", Timestamp: now.Add(-5 * time.Hour), EventType: "Animal", Details: "dog near vehicle", AlertLevel: "low"},
			{ID: "d", CameraID: "Camera 1", Timestamp: now.Add(-30 * time.Hour), EventType: "Human", Details: "walker", AlertLevel: "LOW"},
		},
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, int64(0), Percent(0, 0))
	assert.Equal(t, int64(0), Percent(5, 0))
	assert.Equal(t, int64(50), Percent(1, 2))
	assert.Equal(t, int64(67), Percent(2, 3))
	assert.Equal(t, int64(33), Percent(1, 3))
	assert.Equal(t, int64(100), Percent(4, 4))
}

func TestBuildOverview_TwoCamerasScenario(t *testing.T) {
	snap := model.Snapshot{
		Overall: model.OverallStats{
			DetectionCounts: model.DetectionCounts{TotalDetections: 2, HumanDetections: 2, HighAlerts: 1, LowAlerts: 1},
			ActiveCameras:   2,
		},
	}

	o := BuildOverview(snap, "")
	assert.Equal(t, int64(2), o.Detections)
	assert.Equal(t, int64(1), o.ActiveAlerts)
	assert.Equal(t, int64(50), o.AlertRate)
	assert.Equal(t, []Series{{"High", 1}, {"Medium", 0}, {"Low", 1}}, o.AlertLevels)
}

func TestBuildOverview_SelectedCamera(t *testing.T) {
	o := BuildOverview(sampleSnapshot(), "Camera 1")

	assert.Equal(t, int64(2), o.Detections)
	assert.Equal(t, int64(1), o.ActiveCameras)
	assert.Equal(t, int64(50), o.AlertRate)
	assert.Equal(t, []Series{{"Human", 2}, {"Vehicle", 0}, {"Animal", 0}}, o.ByType)
	assert.Equal(t, int64(1), o.AlertLevels[0].Value, "alert levels stay overall")
	require.Len(t, o.RecentEvents, 2)
	for _, e := range o.RecentEvents {
		assert.Equal(t, "Camera 1", e.CameraID)
	}
}

func TestBuildOverview_UnknownCameraHasZeroRate(t *testing.T) {
	o := BuildOverview(sampleSnapshot(), "Nope")

	assert.Equal(t, int64(0), o.Detections)
	assert.Equal(t, int64(0), o.AlertRate)
	assert.Empty(t, o.RecentEvents)
	assert.NotNil(t, o.RecentEvents)
}

func TestFilterEvents_Conjunctive(t *testing.T) {
	events := sampleSnapshot().RecentEvents

	got := FilterEvents(events, EventFilter{Camera: "Camera 1", AlertLevel: "low"}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "d", got[0].ID)

	got = FilterEvents(events, EventFilter{Camera: "Camera 1", HoursAgo: 24}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got = FilterEvents(events, EventFilter{EventType: "all", AlertLevel: "All", Camera: "all"}, now)
	assert.Len(t, got, 4)
}

func TestFilterEvents_SearchVehicle(t *testing.T) {
	events := sampleSnapshot().RecentEvents

	got := FilterEvents(events, EventFilter{Query: "  VEHICLE "}, now)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID, "matches details too")

	got = FilterEvents(events, EventFilter{Query: "vehicle", Camera: "Camera 2"}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got = FilterEvents(events, EventFilter{Query: "camera 9"}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}

func TestFilterEvents_HoursBoundaryInclusive(t *testing.T) {
	events := []model.Event{{ID: "edge", Timestamp: now.Add(-time.Hour)}}
	assert.Len(t, FilterEvents(events, EventFilter{HoursAgo: 1}, now), 1)
	assert.Empty(t, FilterEvents(events, EventFilter{HoursAgo: 1}, now.Add(time.Second)))
}

func TestParseHours(t *testing.T) {
	assert.Equal(t, 0, ParseHours(""))
	assert.Equal(t, 0, ParseHours("all"))
	assert.Equal(t, 24, ParseHours("24"))
	assert.Equal(t, 0, ParseHours("-3"))
	assert.Equal(t, 0, ParseHours("soon"))
}

func TestEventTypesAndLevels(t *testing.T) {
	events := sampleSnapshot().RecentEvents

	assert.Equal(t, []string{"all", "Human", "Vehicle", "Animal"}, EventTypes(events))
	assert.Equal(t, LevelCounts{High: 1, Medium: 1, Low: 2}, CountLevels(events))
}

func TestBuildEvents_DisplayNameFallsBackToID(t *testing.T) {
	v := BuildEvents(sampleSnapshot(), EventFilter{Camera: "Camera 9"}, now)

	require.Equal(t, 1, v.Total)
	assert.Equal(t, "Camera 9", v.Events[0].CameraName)

	v = BuildEvents(sampleSnapshot(), EventFilter{Camera: "Camera 2"}, now)
	require.Equal(t, 1, v.Total)
	assert.Equal(t, "Parking Area (Camera 2)", v.Events[0].CameraName)
}

func TestEventRow_JSONFlattensEvent(t *testing.T) {
	b, err := json.Marshal(EventRow{Event: model.Event{ID: "x", CameraID: "Camera 1"}, CameraName: "Gate"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "x", m["id"])
	assert.Equal(t, "Gate", m["camera_name"])
}

func TestBuildAlarms_Tabs(t *testing.T) {
	snap := sampleSnapshot()

	high := BuildAlarms(snap, TabHigh)
	assert.Equal(t, int64(2), high.Stats.Total)
	assert.Equal(t, int64(1), high.Stats.High)
	assert.Equal(t, int64(1), high.Stats.Medium)
	assert.Equal(t, map[string]int64{"Camera 1": 1}, high.Stats.ByCameraHigh)
	assert.Equal(t, map[string]int64{"Camera 2": 1}, high.Stats.ByCameraMedium)
	assert.Equal(t, []Series{{"Main Gate (Camera 1)", 1}}, high.ByCamera)
	require.Len(t, high.Events, 1)
	assert.Equal(t, "a", high.Events[0].ID)
	assert.Equal(t, int64(100), high.AlarmShare)

	medium := BuildAlarms(snap, TabMedium)
	assert.Equal(t, []Series{{"Parking Area (Camera 2)", 1}}, medium.ByCamera)
	require.Len(t, medium.Events, 1)
	assert.Equal(t, "b", medium.Events[0].ID)

	all := BuildAlarms(snap, TabAll)
	assert.Len(t, all.Events, 2)
	assert.Len(t, all.ByCamera, 2)
}

func TestBuildAlarms_Empty(t *testing.T) {
	v := BuildAlarms(model.EmptySnapshot(), TabHigh)
	assert.Equal(t, int64(0), v.AlarmShare)
	assert.Empty(t, v.Events)
	assert.Empty(t, v.ByCamera)
}

func TestParseAlarmTab(t *testing.T) {
	tab, err := ParseAlarmTab("")
	require.NoError(t, err)
	assert.Equal(t, TabHigh, tab)

	tab, err = ParseAlarmTab("ALL")
	require.NoError(t, err)
	assert.Equal(t, TabAll, tab)

	_, err = ParseAlarmTab("low")
	assert.Error(t, err)
}

func TestBuildLiveFeeds(t *testing.T) {
	v := BuildLiveFeeds(sampleSnapshot(), "http://cam/video_feed", "Camera 2")

	require.Len(t, v.Feeds, 2)
	assert.Equal(t, int64(2), v.Feeds[0].Detections)
	assert.False(t, v.Feeds[0].Fullscreen)
	assert.True(t, v.Feeds[1].Fullscreen)
	for _, f := range v.Feeds {
		assert.Equal(t, "http://cam/video_feed", f.StreamURL)
	}
	assert.Equal(t, "Camera 2", v.Fullscreen)

	v = BuildLiveFeeds(sampleSnapshot(), "http://cam/video_feed", "Camera 7")
	assert.Empty(t, v.Fullscreen)
}

func TestBuildMap(t *testing.T) {
	cameras := []model.Camera{
		{CameraID: "a", Latitude: 10, Longitude: 20},
		{CameraID: "b", Latitude: 20, Longitude: 40},
		{CameraID: "zero", Latitude: 0, Longitude: 20},
		{CameraID: "bad", Latitude: 120, Longitude: 20},
	}

	m := BuildMap(cameras)
	require.Len(t, m.Markers, 2)
	assert.InDelta(t, 15, m.Center.Lat, 1e-9)
	assert.InDelta(t, 30, m.Center.Lng, 1e-9)

	empty := BuildMap(nil)
	assert.Equal(t, DefaultCenter, empty.Center)
	assert.NotNil(t, empty.Markers)
}

func TestMapView_FeatureCollection(t *testing.T) {
	m := BuildMap(sampleSnapshot().Cameras)
	fc := m.FeatureCollection()

	require.Len(t, fc.Features, 2)
	f := fc.Features[0]
	assert.True(t, f.Geometry.IsPoint())
	assert.Equal(t, []float64{73.1, 33.5}, f.Geometry.Point)
	assert.Equal(t, "Main Gate (Camera 1)", f.Properties["name"])

	b, err := fc.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"FeatureCollection"`)
}
