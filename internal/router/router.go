package router

import (
	"github.com/gin-gonic/gin"

	"invoscan/internal/config"
	"invoscan/internal/handler"
	"invoscan/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	uiH *handler.UIHandler,
	extractH *handler.ExtractHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Demo page and upload endpoint
	r.GET("/", uiH.Index)
	r.POST("/upload", extractH.Upload)

	// Health checks
	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")
	invoices := v1.Group("/invoices")
	invoices.POST("/extract", extractH.Upload)
	invoices.POST("/export", exportH.Export)

	return r
}
