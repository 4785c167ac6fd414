package handlers

import (
	"net/http"

	"plainlaw-backend/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter wires middleware and routes
func NewRouter(translations *TranslationHandler, files *FileHandler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log), metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", RequireCaller())
	{
		// Translation endpoints
		api.POST("/translations", translations.CreateTranslation)
		api.GET("/translations", translations.ListTranslations)
		api.GET("/translations/:id", translations.GetTranslation)
		api.POST("/translations/similar", translations.FindSimilar)

		// File endpoints
		api.POST("/files/upload", files.UploadFile)
		api.GET("/files", files.ListFiles)
		api.GET("/files/:id", files.GetFile)
		api.DELETE("/files/:id", files.DeleteFile)
		api.POST("/files/:id/translate", translations.TranslateFile)
	}

	return r
}
