package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Upload routes
		v1.POST("/uploads", handler.RegisterUpload)
		v1.GET("/uploads", handler.ListUploads)
		v1.GET("/uploads/:id", handler.GetUpload)

		// Workflow-step routes
		v1.POST("/validations", handler.ValidateUpload)
		v1.POST("/status-transitions", handler.TransitionStatus)
	}
}
