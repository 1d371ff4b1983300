package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AlertLevelHigh   = "High"
	AlertLevelMedium = "Medium"
	AlertLevelLow    = "Low"
)

const (
	EventTypeHuman   = "Human"
	EventTypeVehicle = "Vehicle"
	EventTypeAnimal  = "Animal"
)

// Event is a single detection in the event log. Column names follow the
// legacy events table.
type Event struct {
	ID         string    `gorm:"column:uuid;type:varchar(64);primaryKey" json:"id"`
	CameraID   string    `gorm:"column:camera_id;type:varchar(128);not null;index" json:"camera_id"`
	Timestamp  time.Time `gorm:"column:time;not null;index" json:"timestamp"`
	EventType  string    `gorm:"column:event_type;type:varchar(64)" json:"event_type"`
	Details    string    `gorm:"column:event;type:text" json:"details"`
	Alert      bool      `gorm:"column:alert;not null" json:"alert"`
	AlertLevel string    `gorm:"column:alert_level;type:varchar(32)" json:"alert_level"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// CanonicalAlertLevel maps known levels to title case in any input casing.
// Unknown levels are returned trimmed but otherwise untouched.
func CanonicalAlertLevel(level string) string {
	trimmed := strings.TrimSpace(level)
	switch strings.ToLower(trimmed) {
	case "high":
		return AlertLevelHigh
	case "medium":
		return AlertLevelMedium
	case "low":
		return AlertLevelLow
	}
	return trimmed
}

// IsAlert reports whether a level raises the alert flag: anything but low.
func IsAlert(level string) bool {
	return !strings.EqualFold(strings.TrimSpace(level), AlertLevelLow)
}

func SameLevel(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
