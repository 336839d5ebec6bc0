// Package handlers implements the HTTP surface of the file-sharing service.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"fileshare/models"
	"fileshare/store"
)

// uploadDateLayout mimics a human-readable locale timestamp, e.g.
// "11/14/2023, 10:13:20 PM".
const uploadDateLayout = "1/2/2006, 3:04:05 PM"

// Handler coordinates blob storage on disk with the metadata store. A single
// mutex serializes the read-modify-write cycle so concurrent uploads and
// deletes cannot lose each other's updates.
type Handler struct {
	store   store.Store
	dataDir string
	log     *slog.Logger

	mu sync.Mutex
}

func New(st store.Store, dataDir string, log *slog.Logger) (*Handler, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Handler{store: st, dataDir: dataDir, log: log}, nil
}

// Status handles GET /api/status.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "File sharing server is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// ListFiles handles GET /api/files and returns the full record list.
func (h *Handler) ListFiles(c *gin.Context) {
	h.mu.Lock()
	records := h.store.Read()
	h.mu.Unlock()

	c.JSON(http.StatusOK, records)
}

// UploadFile handles POST /api/upload: multipart form with a "file" field
// and a "user" field holding the author identity as JSON.
func (h *Handler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	var user models.ClaimedIdentity
	if err := json.Unmarshal([]byte(c.PostForm("user")), &user); err != nil {
		// A malformed user payload takes the generic server error path.
		h.log.Error("malformed user field on upload", "id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong!"})
		return
	}

	now := time.Now()
	id := strconv.FormatInt(now.UnixMilli(), 10)
	storageName := id + "-" + fileHeader.Filename
	dstPath := filepath.Join(h.dataDir, storageName)
	if abs, err := filepath.Abs(dstPath); err == nil {
		dstPath = abs
	}

	if err := c.SaveUploadedFile(fileHeader, dstPath); err != nil {
		h.log.Error("failed to write blob", "path", dstPath, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	record := models.FileRecord{
		ID:          id,
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		Type:        fileHeader.Header.Get("Content-Type"),
		UploadDate:  now.Format(uploadDateLayout),
		Author:      user.Name,
		AuthorID:    user.ID,
		AuthorColor: user.Color,
		Filename:    storageName,
		Path:        dstPath,
	}

	h.mu.Lock()
	records := h.store.Read()
	records = append(records, record)
	err = h.store.Write(records)
	h.mu.Unlock()
	if err != nil {
		// The blob stays on disk as an orphan; nothing references it.
		h.log.Error("metadata write failed after upload", "fileId", record.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save metadata"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// DownloadFile handles GET /api/download/:id and streams the blob back with
// the original filename.
func (h *Handler) DownloadFile(c *gin.Context) {
	id := c.Param("id")

	h.mu.Lock()
	records := h.store.Read()
	h.mu.Unlock()

	record := findRecord(records, id)
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if _, err := os.Stat(record.Path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File content not found"})
		return
	}

	c.FileAttachment(record.Path, record.Name)
}

// DeleteFile handles DELETE /api/files/:id. The body carries the claimed
// user id; only the uploader may delete a file.
func (h *Handler) DeleteFile(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		UserID string `json:"userId"`
	}
	// A missing or malformed body leaves the claimed id empty, which fails
	// the ownership check below.
	_ = c.ShouldBindJSON(&req)

	h.mu.Lock()
	defer h.mu.Unlock()

	records := h.store.Read()
	idx := -1
	for i := range records {
		if records[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if records[idx].AuthorID != req.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own files"})
		return
	}

	// Blob first, then metadata. A missing blob is not an error.
	if err := os.Remove(records[idx].Path); err != nil && !os.IsNotExist(err) {
		h.log.Warn("failed to remove blob", "path", records[idx].Path, "error", err)
	}

	records = append(records[:idx], records[idx+1:]...)
	if err := h.store.Write(records); err != nil {
		h.log.Error("metadata write failed after delete", "fileId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update metadata"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

func findRecord(records []models.FileRecord, id string) *models.FileRecord {
	for i := range records {
		if records[i].ID == id {
			return &records[i]
		}
	}
	return nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	// The multipart reader does not always wrap the limiter's error.
	return strings.Contains(err.Error(), "request body too large")
}
