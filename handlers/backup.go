package handlers

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fileshare/models"
)

// CreateBackup handles GET /api/backup and streams a zip holding
// metadata.json plus every blob under files/<storage name>.
func (h *Handler) CreateBackup(c *gin.Context) {
	h.mu.Lock()
	records := h.store.Read()
	h.mu.Unlock()

	name := fmt.Sprintf("backup-%s.zip", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Status(http.StatusOK)

	zw := zip.NewWriter(c.Writer)
	defer zw.Close()

	mw, err := zw.Create("metadata.json")
	if err != nil {
		h.log.Error("failed to create metadata entry", "error", err)
		return
	}
	if err := json.NewEncoder(mw).Encode(records); err != nil {
		h.log.Error("failed to encode metadata", "error", err)
		return
	}

	for _, r := range records {
		fw, err := zw.Create("files/" + r.Filename)
		if err != nil {
			h.log.Warn("failed to create zip entry", "fileId", r.ID, "error", err)
			continue
		}
		src, err := os.Open(r.Path)
		if err != nil {
			h.log.Warn("blob missing during backup", "path", r.Path, "error", err)
			continue
		}
		if _, err := io.Copy(fw, src); err != nil {
			h.log.Warn("failed to copy blob into backup", "path", r.Path, "error", err)
		}
		src.Close()
	}
}

// RestoreBackup handles POST /api/restore: a multipart upload of a backup
// zip. Records are upserted by id and blobs re-materialized into the
// storage directory.
func (h *Handler) RestoreBackup(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer f.Close()

	zr, err := zip.NewReader(f, fileHeader.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zip file"})
		return
	}

	var metadata []models.FileRecord
	for _, zf := range zr.File {
		if zf.Name != "metadata.json" {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			break
		}
		if err := json.NewDecoder(rc).Decode(&metadata); err != nil {
			h.log.Warn("failed to decode backup metadata", "error", err)
		}
		rc.Close()
		break
	}
	if len(metadata) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "metadata.json not found or empty"})
		return
	}

	byStorageName := make(map[string]models.FileRecord, len(metadata))
	for _, m := range metadata {
		byStorageName[m.Filename] = m
	}

	var restored []models.FileRecord
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !strings.HasPrefix(zf.Name, "files/") {
			continue
		}
		meta, ok := byStorageName[strings.TrimPrefix(zf.Name, "files/")]
		if !ok {
			continue
		}

		dstPath := filepath.Join(h.dataDir, meta.Filename)
		if abs, err := filepath.Abs(dstPath); err == nil {
			dstPath = abs
		}
		if err := extractZipEntry(zf, dstPath); err != nil {
			h.log.Warn("failed to restore blob", "name", zf.Name, "error", err)
			continue
		}

		meta.Path = dstPath
		restored = append(restored, meta)
	}

	h.mu.Lock()
	records := h.store.Read()
	for _, m := range restored {
		idx := -1
		for i := range records {
			if records[i].ID == m.ID {
				idx = i
				break
			}
		}
		if idx >= 0 {
			records[idx] = m
		} else {
			records = append(records, m)
		}
	}
	err = h.store.Write(records)
	h.mu.Unlock()
	if err != nil {
		h.log.Error("metadata write failed after restore", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update metadata"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Restored %d files", len(restored))})
}

func extractZipEntry(zf *zip.File, dstPath string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, rc)
	return err
}
