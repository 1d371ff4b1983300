package db

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"surveillance-dashboard/internal/config"
)

var ErrClosed = errors.New("database manager closed")

// New opens the event log database and applies migrations when enabled.
func New(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.DB)
	if err != nil {
		return nil, err
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DB.Driver, err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if cfg.DB.AutoMigrate {
		if err := runMigrations(database, cfg.DB.Driver); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		log.Debug().Str("driver", cfg.DB.Driver).Msg("migrations applied")
	}

	log.Info().Str("driver", cfg.DB.Driver).Msg("database connected")
	return database, nil
}

func dialectorFor(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	case "sqlite":
		sep := "?"
		if strings.Contains(cfg.DSN, "?") {
			sep = "&"
		}
		// WAL как в исходной базе дашборда
		return sqlite.Open(cfg.DSN + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"), nil
	}
	return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
}

// Manager owns the single process-wide database handle. The handle is opened
// on the first Get and released by Close; Get after Close fails.
type Manager struct {
	open func() (*gorm.DB, error)

	mu     sync.Mutex
	db     *gorm.DB
	closed bool
}

func NewManager(cfg *config.Config, log zerolog.Logger) *Manager {
	return &Manager{
		open: func() (*gorm.DB, error) { return New(cfg, log) },
	}
}

// NewManagerWith wraps an already opened handle.
func NewManagerWith(database *gorm.DB) *Manager {
	return &Manager{
		open: func() (*gorm.DB, error) { return database, nil },
	}
}

func (m *Manager) Get() (*gorm.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.db != nil {
		return m.db, nil
	}

	database, err := m.open()
	if err != nil {
		// следующий Get попробует снова
		return nil, err
	}
	m.db = database
	return m.db, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	m.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
