// Package store owns the authoritative list of file records.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fileshare/models"
)

// Store reads and writes the full ordered record list. There are no partial
// updates: every mutation is read list, modify, write list, and callers are
// expected to serialize that cycle themselves.
type Store interface {
	// Read returns the records in insertion order. An absent, malformed or
	// unreadable backing document reads as an empty list; failures are
	// logged, never surfaced.
	Read() []models.FileRecord
	// Write persists the full list, replacing any prior content.
	Write(records []models.FileRecord) error
}

// JSONStore keeps the record list in a single JSON document on disk.
type JSONStore struct {
	path string
	log  *slog.Logger
}

var _ Store = (*JSONStore)(nil)

func NewJSONStore(path string, log *slog.Logger) (*JSONStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create metadata directory: %w", err)
		}
	}
	return &JSONStore{path: path, log: log}, nil
}

func (s *JSONStore) Read() []models.FileRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to read metadata document, treating as empty", "path", s.path, "error", err)
		}
		return []models.FileRecord{}
	}

	var records []models.FileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Warn("metadata document is malformed, treating as empty", "path", s.path, "error", err)
		return []models.FileRecord{}
	}
	if records == nil {
		records = []models.FileRecord{}
	}
	return records
}

func (s *JSONStore) Write(records []models.FileRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write metadata document: %w", err)
	}
	return nil
}
