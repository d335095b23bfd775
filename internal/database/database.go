package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nutrinet/nutrition-network/backend/internal/models"
)

// New opens the SQLite scan archive at the given path and migrates
// its schema. Pass ":memory:" for an in-memory database in tests.
func New(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening scan archive: %w", err)
	}

	if err := db.AutoMigrate(&models.ScanEvent{}); err != nil {
		return nil, fmt.Errorf("error migrating scan archive: %w", err)
	}

	log.Printf("Successfully opened scan archive at %s", path)
	return db, nil
}
