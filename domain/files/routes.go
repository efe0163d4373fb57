package files

import (
	"github.com/labstack/echo/v4"

	"github.com/mindweave-labs/mindweave/pkg/auth"
)

// RegisterRoutes registers the files routes
func RegisterRoutes(e *echo.Echo, handler *Handler, authMiddleware *auth.Middleware) {
	g := e.Group("/api/files")
	g.Use(authMiddleware.RequireAuth())

	g.GET("", handler.List)
	g.POST("", handler.Upload)
	g.GET("/:id", handler.Get)
	g.GET("/:id/download", handler.DownloadURL)
	g.DELETE("/:id", handler.Delete)
}
