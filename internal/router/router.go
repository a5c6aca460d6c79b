package router

import (
	"github.com/gin-gonic/gin"

	"docdiff/internal/domain"
	"docdiff/internal/handler"
	"docdiff/internal/middleware"
	"docdiff/internal/port"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	keyRepo port.APIKeyRepository,
	allowedOrigins []string,
	docH *handler.DocumentHandler,
	compH *handler.ComparisonHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	readOnly := middleware.RequireScope(keyRepo, domain.ScopeRead)
	writeAccess := middleware.RequireScope(keyRepo, domain.ScopeWrite)

	// Document routes
	docs := v1.Group("/documents")
	docs.POST("", writeAccess, docH.Upload)
	docs.GET("", readOnly, docH.List)
	docs.GET("/:id", readOnly, docH.GetByID)
	docs.GET("/:id/pdf", readOnly, docH.GetPDF)
	docs.GET("/:id/ocr", readOnly, docH.GetOCR)
	docs.DELETE("/:id", writeAccess, docH.Delete)

	// Comparison routes
	comps := v1.Group("/comparisons")
	comps.POST("", writeAccess, compH.Create)
	comps.POST("/:id/run", writeAccess, compH.Rerun)
	comps.GET("", readOnly, compH.List)
	comps.GET("/:id", readOnly, compH.GetByID)
	comps.GET("/:id/render-metadata", readOnly, compH.RenderMetadata)

	return r
}
