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
		// Students
		v1.POST("/students", handler.CreateStudent)
		v1.GET("/students/:id", handler.GetStudent)
		v1.GET("/students/:id/bulletin/:term_id", handler.GetBulletin)

		// Academic terms
		v1.GET("/terms", handler.ListTerms)
		v1.POST("/terms", handler.CreateTerm)
		v1.PUT("/terms/current", handler.SetCurrentTerm)

		// Evaluations
		v1.POST("/evaluations", handler.CreateEvaluation)
		v1.POST("/sheets", handler.RegisterSheet)
		v1.GET("/sheets/:id", handler.GetSheetStatus)

		// Authority reporting
		v1.POST("/reports", handler.SubmitReport)
		v1.GET("/reports/:id", handler.GetSubmission)
	}
}
