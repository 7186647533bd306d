package sqlite

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"payportal.backend/pkg/logger"
)

// NewConnection opens the embedded database at path. Foreign keys and WAL
// are enabled so a single-node deployment behaves like the server setup.
func NewConnection(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.NewGormLogger(logger.DefaultSlowQuery),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY under load
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
