package database

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/thecodedsurveyor/ai-chat-sub003/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	ErrEmptyDSN        = errors.New("database DSN is empty")
	ErrConnect         = errors.New("failed to connect to database")
	ErrMigrationFailed = errors.New("failed to migrate")
)

// Open connects to Postgres, or to SQLite when the DSN is a file path or
// a "file:" URI.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	db, err := gorm.Open(dialector(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	return db, nil
}

func dialector(dsn string) gorm.Dialector {
	if isSQLite(dsn) {
		return sqlite.Open(dsn)
	}
	return postgres.Open(dsn)
}

func isSQLite(dsn string) bool {
	if strings.HasPrefix(dsn, "file:") {
		return true
	}
	path, _, _ := strings.Cut(dsn, "?")
	return strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite")
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Printf("Failed to auto migrate models: %v", err)
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}
	return nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
