package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"plainlaw-backend/models"
	"plainlaw-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedFileType = errors.New("only PDF and plain text files are accepted")
)

const defaultMaxUploadBytes = 10 * 1024 * 1024

// FileService handles uploads of source documents
type FileService struct {
	files          FileStore
	storage        storage.Storage
	maxUploadBytes int64
	logger         *zap.Logger
}

// FileServiceOption is a functional option for FileService
type FileServiceOption func(*FileService)

// FileWithStore sets the file record store
func FileWithStore(files FileStore) FileServiceOption {
	return func(s *FileService) {
		s.files = files
	}
}

// FileWithStorage sets the storage backend
func FileWithStorage(st storage.Storage) FileServiceOption {
	return func(s *FileService) {
		s.storage = st
	}
}

// FileWithMaxUploadBytes bounds accepted upload sizes
func FileWithMaxUploadBytes(n int64) FileServiceOption {
	return func(s *FileService) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// FileWithLogger sets the logger
func FileWithLogger(l *zap.Logger) FileServiceOption {
	return func(s *FileService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileService creates a new file service
func NewFileService(opts ...FileServiceOption) *FileService {
	s := &FileService{
		maxUploadBytes: defaultMaxUploadBytes,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxUploadBytes reports the configured upload limit
func (s *FileService) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// UploadFileRequest represents an incoming upload
type UploadFileRequest struct {
	UserID   uuid.UUID
	Filename string
	MimeType string
	Size     int64
	Data     io.Reader
}

// UploadFile stores the document and records it for the caller
func (s *FileService) UploadFile(ctx context.Context, req UploadFileRequest) (*models.File, error) {
	if s.files == nil || s.storage == nil {
		return nil, errors.New("file storage not set")
	}
	if req.Size > s.maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	mimeType, err := resolveMimeType(req.Filename, req.MimeType)
	if err != nil {
		return nil, err
	}

	fileID := uuid.New()
	storagePath, err := s.storage.Upload(ctx, fileID, req.Filename, io.LimitReader(req.Data, s.maxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	file := &models.File{
		ID:          fileID,
		UserID:      req.UserID,
		Filename:    filepath.Base(req.Filename),
		MimeType:    mimeType,
		Size:        req.Size,
		StoragePath: storagePath,
	}
	if err := s.files.Create(ctx, file); err != nil {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("storage_path", storagePath), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	return file, nil
}

// GetFileResult carries a file record and its content; the caller closes Content
type GetFileResult struct {
	File    *models.File
	Content io.ReadCloser
}

// GetFile opens one of the caller's uploads
func (s *FileService) GetFile(ctx context.Context, userID, fileID uuid.UUID) (*GetFileResult, error) {
	file, err := s.ownedFile(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}

	rc, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	return &GetFileResult{File: file, Content: rc}, nil
}

// ListFiles returns the caller's uploads, newest first
func (s *FileService) ListFiles(ctx context.Context, userID uuid.UUID) ([]*models.File, error) {
	if s.files == nil {
		return nil, errors.New("file store not set")
	}
	files, err := s.files.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []*models.File{}
	}
	return files, nil
}

// DeleteFile removes the record and the stored object
func (s *FileService) DeleteFile(ctx context.Context, userID, fileID uuid.UUID) error {
	file, err := s.ownedFile(ctx, userID, fileID)
	if err != nil {
		return err
	}

	if err := s.files.Delete(ctx, file.ID); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, file.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored object", zap.String("storage_path", file.StoragePath), zap.Error(err))
	}
	return nil
}

func (s *FileService) ownedFile(ctx context.Context, userID, fileID uuid.UUID) (*models.File, error) {
	if s.files == nil || s.storage == nil {
		return nil, errors.New("file storage not set")
	}

	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if file.UserID != userID {
		return nil, ErrForbidden
	}
	return file, nil
}

// resolveMimeType trusts the declared type when it is supported and falls
// back to the file extension otherwise.
func resolveMimeType(filename, declared string) (string, error) {
	if mt, _, err := mime.ParseMediaType(declared); err == nil {
		switch mt {
		case models.MimeTypePDF, models.MimeTypeText:
			return mt, nil
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return models.MimeTypePDF, nil
	case ".txt":
		return models.MimeTypeText, nil
	}
	return "", ErrUnsupportedFileType
}
