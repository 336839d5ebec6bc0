package store

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileshare/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRecords() []models.FileRecord {
	return []models.FileRecord{
		{
			ID:          "1700000000001",
			Name:        "notes.txt",
			Size:        42,
			Type:        "text/plain",
			UploadDate:  "11/14/2023, 10:13:20 PM",
			Author:      "Alice",
			AuthorID:    "u1",
			AuthorColor: "#ff0000",
			Filename:    "1700000000001-notes.txt",
			Path:        "/data/uploads/1700000000001-notes.txt",
		},
		{
			ID:          "1700000000002",
			Name:        "cat.png",
			Size:        1024,
			Type:        "image/png",
			UploadDate:  "11/14/2023, 10:13:20 PM",
			Author:      "Bob",
			AuthorID:    "u2",
			AuthorColor: "#00ff00",
			Filename:    "1700000000002-cat.png",
			Path:        "/data/uploads/1700000000002-cat.png",
		},
	}
}

func TestJSONStoreReadMissing(t *testing.T) {
	s, err := NewJSONStore(filepath.Join(t.TempDir(), "files.json"), testLogger())
	require.NoError(t, err)

	records := s.Read()
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestJSONStoreRoundTrip(t *testing.T) {
	s, err := NewJSONStore(filepath.Join(t.TempDir(), "files.json"), testLogger())
	require.NoError(t, err)

	want := sampleRecords()
	require.NoError(t, s.Write(want))
	assert.Equal(t, want, s.Read())

	// A second write replaces the whole document.
	require.NoError(t, s.Write(want[:1]))
	assert.Equal(t, want[:1], s.Read())

	require.NoError(t, s.Write([]models.FileRecord{}))
	assert.Empty(t, s.Read())
}

func TestJSONStoreReadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "files.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s, err := NewJSONStore(path, testLogger())
	require.NoError(t, err)

	records := s.Read()
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestJSONStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "files.json")

	s, err := NewJSONStore(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, s.Write(sampleRecords()))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "meta.db"), testLogger())
	require.NoError(t, err)

	assert.Empty(t, s.Read())

	want := sampleRecords()
	require.NoError(t, s.Write(want))
	assert.Equal(t, want, s.Read())

	require.NoError(t, s.Write(want[1:]))
	assert.Equal(t, want[1:], s.Read())

	require.NoError(t, s.Write([]models.FileRecord{}))
	assert.Empty(t, s.Read())
}

func TestMemStoreWriteErr(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Write(sampleRecords()))

	s.WriteErr = assert.AnError
	assert.Error(t, s.Write([]models.FileRecord{}))

	// Failed write leaves prior content intact.
	assert.Len(t, s.Read(), 2)
}
