package models

import (
	"time"

	"github.com/google/uuid"
)

// Supported upload types.
const (
	MimeTypePDF  = "application/pdf"
	MimeTypeText = "text/plain"
)

// File is an uploaded source document awaiting or used for translation
type File struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
