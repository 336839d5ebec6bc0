package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fileshare/models"
)

// SQLiteStore is an alternative metadata backend with the same whole-list
// read/write semantics as JSONStore: Write replaces the full table contents
// in one transaction.
type SQLiteStore struct {
	db  *gorm.DB
	log *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(path string, log *slog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := models.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) Read() []models.FileRecord {
	var records []models.FileRecord
	// rowid reflects insertion order of the last full Write.
	if err := s.db.Order("rowid").Find(&records).Error; err != nil {
		s.log.Warn("failed to read metadata table, treating as empty", "error", err)
		return []models.FileRecord{}
	}
	if records == nil {
		records = []models.FileRecord{}
	}
	return records
}

func (s *SQLiteStore) Write(records []models.FileRecord) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.FileRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return fmt.Errorf("write metadata table: %w", err)
	}
	return nil
}
