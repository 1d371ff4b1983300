package db

import (
	"fmt"

	"gorm.io/gorm"
)

func migrationStatements(driver string) []string {
	timeType := "DATETIME"
	if driver == "postgres" {
		timeType = "TIMESTAMPTZ"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS events (
		uuid VARCHAR(64) PRIMARY KEY,
		camera_id VARCHAR(128) NOT NULL,
		time %s NOT NULL,
		event_type VARCHAR(64),
		event TEXT,
		alert BOOLEAN NOT NULL DEFAULT FALSE,
		alert_level VARCHAR(32)
	);`, timeType),
		`CREATE INDEX IF NOT EXISTS idx_events_time ON events (time);`,
		`CREATE INDEX IF NOT EXISTS idx_events_camera_id ON events (camera_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_alert_level ON events (alert_level);`,
	}
}

func runMigrations(db *gorm.DB, driver string) error {
	for i, stmt := range migrationStatements(driver) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

// Migrate applies the schema on an already opened handle.
func Migrate(db *gorm.DB) error {
	return runMigrations(db, db.Dialector.Name())
}
