package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"resume-editor/internal/api/handlers"
	"resume-editor/internal/api/middleware"
	"resume-editor/internal/config"
	"resume-editor/internal/session"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, manager *session.Manager) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation(cfg.Server.MaxUploadSize))
	// Short timeout for edits, parser timeout plus slack for upload/save
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, cfg.Parser.Timeout+10*time.Second))

	if cfg.RateLimit.Enabled {
		e.Use(middleware.NewRateLimiter(cfg).Middleware())
	}

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(manager))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(manager))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSessionHandler(manager))
			sessions.GET("/:id", handlers.GetSessionHandler(manager))
			sessions.DELETE("/:id", handlers.DeleteSessionHandler(manager))
			sessions.POST("/:id/reset", handlers.ResetSessionHandler(manager))
			sessions.POST("/:id/upload", handlers.UploadResumeHandler(manager))
			sessions.POST("/:id/save", handlers.SaveResumeHandler(manager))

			// Document editing routes
			doc := sessions.Group("/:id/document")
			{
				doc.PUT("/fields/:field", handlers.SetFieldHandler(manager))
				doc.PUT("/bulk/:field", handlers.SetBulkFieldHandler(manager))
				doc.POST("/:list/entries", handlers.AppendEntryHandler(manager))
				doc.DELETE("/:list/entries/:index", handlers.RemoveEntryHandler(manager))
				doc.PATCH("/:list/entries/:index", handlers.UpdateEntryHandler(manager))
			}
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Resume Editor",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
