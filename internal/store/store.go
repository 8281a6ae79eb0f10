// Package store owns the SQLite connection and schema lifecycle.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/trackboard/backend/internal/model"
)

// Open connects to the SQLite database at path, creating the parent
// directory if needed. Foreign keys are switched on per connection via the
// DSN so defect cascades hold on every pooled connection.
func Open(path string) (*gorm.DB, error) {
	if !strings.HasPrefix(path, ":memory:") && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func dsn(path string) string {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path == ":memory:" {
		return "file::memory:?" + params
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params
}

// Migrate creates or extends the schema and runs idempotent data
// migrations. Safe to call on every process start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Project{},
		&model.Activity{},
		&model.Release{},
		&model.Note{},
		&model.RetrospectiveItem{},
		&model.Defect{},
		&model.DefectHistory{},
		&model.DefectRequirementLink{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// One-time migration: collapse the legacy status spelling onto the
	// canonical vocabulary.
	if err := db.Model(&model.Defect{}).
		Where("status = ?", "Under Developer").
		Update("status", model.DefectStatusAssignedToDeveloper).Error; err != nil {
		return fmt.Errorf("migrate legacy defect status: %w", err)
	}
	if err := db.Model(&model.DefectHistory{}).
		Where("new_status = ?", "Under Developer").
		Update("new_status", model.DefectStatusAssignedToDeveloper).Error; err != nil {
		return fmt.Errorf("migrate legacy history status: %w", err)
	}
	if err := db.Model(&model.DefectHistory{}).
		Where("old_status = ?", "Under Developer").
		Update("old_status", model.DefectStatusAssignedToDeveloper).Error; err != nil {
		return fmt.Errorf("migrate legacy history status: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
