package models

import (
	"gorm.io/gorm"
)

// FileRecord describes one uploaded blob. Records are created by the upload
// handler after the blob is written and never mutated afterwards; deleting a
// file removes the blob first, then rewrites the list without the record.
type FileRecord struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	Type        string `json:"type"`
	UploadDate  string `json:"uploadDate"`
	Author      string `json:"author"`
	AuthorID    string `json:"authorId"`
	AuthorColor string `json:"authorColor"`
	Filename    string `json:"filename"`
	Path        string `json:"path"`
}

// ClaimedIdentity is the author triple a client attaches to an upload.
// Nothing verifies it; delete authorization is a plain string comparison
// between the stored authorId and the id claimed in the delete request.
type ClaimedIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&FileRecord{})
}
