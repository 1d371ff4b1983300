package view

import (
	"strconv"
	"strings"
	"time"

	"surveillance-dashboard/internal/model"
	"surveillance-dashboard/internal/utils"
)

// All disables a structured filter.
const All = "all"

// EventFilter selects events on the events screen. Empty fields and All
// match everything, HoursAgo <= 0 disables the time window. All set filters
// must match.
type EventFilter struct {
	Camera     string `json:"camera,omitempty"`
	EventType  string `json:"event_type,omitempty"`
	AlertLevel string `json:"alert_level,omitempty"`
	HoursAgo   int    `json:"hours,omitempty"`
	Query      string `json:"q,omitempty"`
}

// ParseHours reads the date range selector: a number of hours or "all".
func ParseHours(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, All) {
		return 0
	}
	h, err := strconv.Atoi(raw)
	if err != nil || h < 0 {
		return 0
	}
	return h
}

func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, All)
}

func (f EventFilter) Match(e model.Event, now time.Time) bool {
	if active(f.Camera) && e.CameraID != strings.TrimSpace(f.Camera) {
		return false
	}
	if active(f.EventType) && !strings.EqualFold(e.EventType, strings.TrimSpace(f.EventType)) {
		return false
	}
	if active(f.AlertLevel) && !model.SameLevel(e.AlertLevel, f.AlertLevel) {
		return false
	}
	if f.HoursAgo > 0 && now.Sub(e.Timestamp) > time.Duration(f.HoursAgo)*time.Hour {
		return false
	}

	q := utils.NormalizeQuery(f.Query)
	if q == "" {
		return true
	}
	return utils.ContainsFold(e.EventType, q) ||
		utils.ContainsFold(e.Details, q) ||
		utils.ContainsFold(e.CameraID, q)
}

func FilterEvents(events []model.Event, f EventFilter, now time.Time) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if f.Match(e, now) {
			out = append(out, e)
		}
	}
	return out
}

// EventTypes lists All followed by the distinct types in first-seen order.
func EventTypes(events []model.Event) []string {
	types := []string{All}
	seen := make(map[string]struct{})
	for _, e := range events {
		if _, ok := seen[e.EventType]; ok {
			continue
		}
		seen[e.EventType] = struct{}{}
		types = append(types, e.EventType)
	}
	return types
}

type LevelCounts struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

func CountLevels(events []model.Event) LevelCounts {
	var c LevelCounts
	for _, e := range events {
		switch model.CanonicalAlertLevel(e.AlertLevel) {
		case model.AlertLevelHigh:
			c.High++
		case model.AlertLevelMedium:
			c.Medium++
		case model.AlertLevelLow:
			c.Low++
		}
	}
	return c
}

// DisplayName resolves a camera id to its directory name, or the id itself
// when the camera is not in the directory.
func DisplayName(cameras []model.Camera, cameraID string) string {
	for _, c := range cameras {
		if c.CameraID == cameraID && c.Name != "" {
			return c.Name
		}
	}
	return cameraID
}

type EventRow struct {
	model.Event
	CameraName string `json:"camera_name"`
}

type EventsView struct {
	Filter     EventFilter    `json:"filter"`
	Total      int            `json:"total"`
	Events     []EventRow     `json:"events"`
	EventTypes []string       `json:"event_types"`
	Levels     LevelCounts    `json:"levels"`
	Cameras    []model.Camera `json:"cameras"`
}

// BuildEvents applies f to the snapshot's recent events. Level counts and
// event types are taken over the unfiltered list.
func BuildEvents(snap model.Snapshot, f EventFilter, now time.Time) EventsView {
	filtered := FilterEvents(snap.RecentEvents, f, now)

	rows := make([]EventRow, 0, len(filtered))
	for _, e := range filtered {
		rows = append(rows, EventRow{Event: e, CameraName: DisplayName(snap.Cameras, e.CameraID)})
	}

	return EventsView{
		Filter:     f,
		Total:      len(rows),
		Events:     rows,
		EventTypes: EventTypes(snap.RecentEvents),
		Levels:     CountLevels(snap.RecentEvents),
		Cameras:    nonNil(snap.Cameras),
	}
}
