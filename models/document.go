package models

import (
	"time"

	"github.com/google/uuid"
)

// Document represents metadata for a file whose bytes live in object storage
type Document struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	FileName      string    `json:"file_name"`
	FileType      string    `json:"file_type"`
	ObjectKey     string    `json:"object_key"`
	SizeBytes     *int64    `json:"size_bytes,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
}
