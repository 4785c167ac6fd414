// Package storage keeps uploaded source documents on the local filesystem or S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned when a storage path holds no object.
var ErrObjectNotFound = errors.New("stored object not found")

// Storage interface for file storage operations
type Storage interface {
	// Upload stores a file and returns the storage path
	Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves a file by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a file by storage path; missing objects are not an error
	Delete(ctx context.Context, storagePath string) error
}

// Type selects the storage backend
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

// Config holds configuration for storage
type Config struct {
	Type         Type
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// New creates a storage backend based on configuration
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case TypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case TypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("S3 bucket is required for S3 storage")
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// objectKey builds "<id prefix>/<id>_<sanitized name><ext>" for a file.
func objectKey(fileID uuid.UUID, filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(filename))
	baseName := sanitize(strings.TrimSuffix(filename, filepath.Ext(filename)))
	if baseName == "" {
		baseName = "document"
	}

	id := fileID.String()
	return fmt.Sprintf("%s/%s_%s%s", id[:2], id, baseName, sanitize(ext))
}

// sanitize keeps letters, digits, dots, dashes and underscores; everything
// else becomes an underscore.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// ContentType maps a filename to the MIME type stored alongside uploads
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
