package handlers

import (
	"errors"
	"net/http"

	"plainlaw-backend/logger"
	"plainlaw-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps service sentinels to HTTP statuses; anything
// unrecognised is logged and reported as an internal error.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTextTooShort):
		respondError(c, http.StatusBadRequest, "TEXT_TOO_SHORT", err.Error())
	case errors.Is(err, service.ErrTextTooLong):
		respondError(c, http.StatusBadRequest, "TEXT_TOO_LONG", err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, service.ErrExtractionFailed):
		respondError(c, http.StatusUnprocessableEntity, "EXTRACTION_FAILED", "Could not read text from the file")
	case errors.Is(err, service.ErrTranslationFailed):
		respondError(c, http.StatusBadGateway, "TRANSLATION_FAILED", "Translation service unavailable, try again later")
	case errors.Is(err, service.ErrFileTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, service.ErrUnsupportedFileType):
		respondError(c, http.StatusUnsupportedMediaType, "INVALID_FILE_TYPE", err.Error())
	default:
		logger.FromContext(c.Request.Context()).Error("request failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
