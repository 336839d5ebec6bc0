package store

import (
	"sync"

	"fileshare/models"
)

// MemStore is an in-memory Store used by tests.
type MemStore struct {
	mu      sync.Mutex
	records []models.FileRecord

	// WriteErr, when set, makes every Write fail with it.
	WriteErr error
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{records: []models.FileRecord{}}
}

func (s *MemStore) Read() []models.FileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FileRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *MemStore) Write(records []models.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.records = make([]models.FileRecord, len(records))
	copy(s.records, records)
	return nil
}
