package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/prism-be/logger"
	"github.com/tieubaoca/prism-be/middleware"
)

type Handlers struct {
	Research *ResearchHandler
	Upload   *UploadHandler
	Health   *HealthHandler
}

// NewRouter wires every route on a fresh gin engine.
func NewRouter(h Handlers, log *logger.Logger) *gin.Engine {
	router := gin.New()

	// Apply global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(NewCorsHandler().CorsMiddleware)

	router.GET("/healthz", h.Health.HandleHealth)

	api := router.Group("/api")
	{
		api.POST("/research/roadmap", h.Research.HandleRoadmap)
		api.POST("/research/enrich", h.Research.HandleEnrich)
		api.POST("/ablation/predict", h.Research.HandleAblation)
		api.POST("/quiz/generate", h.Research.HandleQuiz)
		api.POST("/model/generate", h.Research.HandleModelQuery)
		api.POST("/upload/pdf", h.Upload.UploadDocumentHandler)
	}
	return router
}
