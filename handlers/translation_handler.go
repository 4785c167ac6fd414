package handlers

import (
	"net/http"
	"strconv"

	"plainlaw-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TranslationHandler handles HTTP requests for translations
type TranslationHandler struct {
	translationService *service.TranslationService
}

// NewTranslationHandler creates a new translation handler
func NewTranslationHandler(translationService *service.TranslationService) *TranslationHandler {
	return &TranslationHandler{translationService: translationService}
}

// CreateTranslationRequest represents the request body for creating a translation
type CreateTranslationRequest struct {
	Title *string `json:"title"`
	Text  string  `json:"text" binding:"required"`
}

// SimilarRequest represents the request body for a retrieval preview
type SimilarRequest struct {
	Text  string `json:"text" binding:"required"`
	Limit int    `json:"limit"`
}

// TranslateFileRequest represents the optional request body for translating an upload
type TranslateFileRequest struct {
	Title *string `json:"title"`
}

// CreateTranslation handles POST /api/translations
func (h *TranslationHandler) CreateTranslation(c *gin.Context) {
	var req CreateTranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.translationService.Translate(c.Request.Context(), service.TranslateRequest{
		UserID: callerID(c),
		Title:  req.Title,
		Text:   req.Text,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"translation":      result.Translation,
		"similar_examples": result.SimilarExamples,
	})
}

// ListTranslations handles GET /api/translations
func (h *TranslationHandler) ListTranslations(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer")
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_OFFSET", "offset must be an integer")
		return
	}

	items, err := h.translationService.ListTranslations(c.Request.Context(), service.ListTranslationsRequest{
		UserID: callerID(c),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, items)
}

// GetTranslation handles GET /api/translations/:id
func (h *TranslationHandler) GetTranslation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid translation ID format")
		return
	}

	t, err := h.translationService.GetTranslation(c.Request.Context(), service.GetTranslationRequest{
		UserID:        callerID(c),
		TranslationID: id,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, t)
}

// FindSimilar handles POST /api/translations/similar
func (h *TranslationHandler) FindSimilar(c *gin.Context) {
	var req SimilarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.translationService.FindSimilar(c.Request.Context(), service.FindSimilarRequest{
		Text:  req.Text,
		Limit: req.Limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"candidates": result.Candidates,
		"context":    result.Context,
	})
}

// TranslateFile handles POST /api/files/:id/translate
func (h *TranslationHandler) TranslateFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid file ID format")
		return
	}

	var req TranslateFileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}

	result, err := h.translationService.TranslateFile(c.Request.Context(), service.TranslateFileRequest{
		UserID: callerID(c),
		FileID: id,
		Title:  req.Title,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"translation":      result.Translation,
		"similar_examples": result.SimilarExamples,
	})
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
