package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"plainlaw-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// multipart envelope allowance on top of the file size limit
const multipartOverhead = 1 << 20

// FileHandler handles HTTP requests for file operations
type FileHandler struct {
	fileService *service.FileService
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// UploadFile handles POST /api/files/upload
func (h *FileHandler) UploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.fileService.MaxUploadBytes()+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondServiceError(c, service.ErrFileTooLarge)
			return
		}
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	record, err := h.fileService.UploadFile(c.Request.Context(), service.UploadFileRequest{
		UserID:   callerID(c),
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Size:     fileHeader.Size,
		Data:     file,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, record)
}

// ListFiles handles GET /api/files
func (h *FileHandler) ListFiles(c *gin.Context) {
	files, err := h.fileService.ListFiles(c.Request.Context(), callerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, files)
}

// GetFile handles GET /api/files/:id
func (h *FileHandler) GetFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid file ID format")
		return
	}

	result, err := h.fileService.GetFile(c.Request.Context(), callerID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer result.Content.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", result.File.Filename),
	}
	c.DataFromReader(http.StatusOK, result.File.Size, result.File.MimeType, result.Content, extraHeaders)
}

// DeleteFile handles DELETE /api/files/:id
func (h *FileHandler) DeleteFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid file ID format")
		return
	}

	if err := h.fileService.DeleteFile(c.Request.Context(), callerID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
