package view

import (
	"fmt"
	"sort"
	"strings"

	"surveillance-dashboard/internal/model"
)

type AlarmTab string

const (
	TabHigh   AlarmTab = "high"
	TabMedium AlarmTab = "medium"
	TabAll    AlarmTab = "all"
)

// ParseAlarmTab defaults to the high tab.
func ParseAlarmTab(raw string) (AlarmTab, error) {
	switch AlarmTab(strings.ToLower(strings.TrimSpace(raw))) {
	case "", TabHigh:
		return TabHigh, nil
	case TabMedium:
		return TabMedium, nil
	case TabAll:
		return TabAll, nil
	}
	return "", fmt.Errorf("unknown alarm tab %q", raw)
}

type AlarmStats struct {
	Total          int64            `json:"total"`
	High           int64            `json:"high"`
	Medium         int64            `json:"medium"`
	ByCameraHigh   map[string]int64 `json:"by_camera_high"`
	ByCameraMedium map[string]int64 `json:"by_camera_medium"`
}

type AlarmsView struct {
	Tab        AlarmTab   `json:"tab"`
	Stats      AlarmStats `json:"stats"`
	AlarmShare int64      `json:"alarm_share"`
	ByPriority []Series   `json:"by_priority"`
	ByCamera   []Series   `json:"by_camera"`
	Events     []EventRow `json:"events"`
}

// IsAlarm reports whether the event is high or medium.
func IsAlarm(e model.Event) bool {
	switch model.CanonicalAlertLevel(e.AlertLevel) {
	case model.AlertLevelHigh, model.AlertLevelMedium:
		return true
	}
	return false
}

func AlarmTotals(alarms []model.Event) AlarmStats {
	s := AlarmStats{
		ByCameraHigh:   map[string]int64{},
		ByCameraMedium: map[string]int64{},
	}
	for _, e := range alarms {
		s.Total++
		if model.CanonicalAlertLevel(e.AlertLevel) == model.AlertLevelHigh {
			s.High++
			s.ByCameraHigh[e.CameraID]++
		} else {
			s.Medium++
			s.ByCameraMedium[e.CameraID]++
		}
	}
	return s
}

// BuildAlarms derives the alarms screen from the recent events. The alarm
// share is relative to the alarm list itself, matching the dashboard card.
func BuildAlarms(snap model.Snapshot, tab AlarmTab) AlarmsView {
	alarms := make([]model.Event, 0, len(snap.RecentEvents))
	for _, e := range snap.RecentEvents {
		if IsAlarm(e) {
			alarms = append(alarms, e)
		}
	}
	stats := AlarmTotals(alarms)

	denom := int64(len(alarms))
	if denom == 0 {
		denom = 1
	}

	rows := make([]EventRow, 0, len(alarms))
	for _, e := range alarms {
		if tab != TabAll && !model.SameLevel(e.AlertLevel, string(tab)) {
			continue
		}
		rows = append(rows, EventRow{Event: e, CameraName: DisplayName(snap.Cameras, e.CameraID)})
	}

	return AlarmsView{
		Tab:        tab,
		Stats:      stats,
		AlarmShare: Percent(stats.Total, denom),
		ByPriority: []Series{
			{Name: "High Priority", Value: stats.High},
			{Name: "Medium Priority", Value: stats.Medium},
		},
		ByCamera: cameraSeries(snap.Cameras, stats, tab),
		Events:   rows,
	}
}

// cameraSeries picks the bar series for the tab; all sums both levels.
func cameraSeries(cameras []model.Camera, s AlarmStats, tab AlarmTab) []Series {
	counts := map[string]int64{}
	if tab == TabHigh || tab == TabAll {
		for id, n := range s.ByCameraHigh {
			counts[id] += n
		}
	}
	if tab == TabMedium || tab == TabAll {
		for id, n := range s.ByCameraMedium {
			counts[id] += n
		}
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	series := make([]Series, 0, len(ids))
	for _, id := range ids {
		series = append(series, Series{Name: DisplayName(cameras, id), Value: counts[id]})
	}
	return series
}
