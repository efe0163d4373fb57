package notes

import (
	"github.com/labstack/echo/v4"

	"github.com/mindweave-labs/mindweave/pkg/auth"
)

// RegisterRoutes registers the notes routes
func RegisterRoutes(e *echo.Echo, handler *Handler, authMiddleware *auth.Middleware) {
	g := e.Group("/api/notes")
	g.Use(authMiddleware.RequireAuth())

	g.GET("", handler.List)
	g.POST("", handler.Create)
	g.GET("/:id", handler.Get)
	g.PATCH("/:id", handler.Update)
	g.DELETE("/:id", handler.Delete)
}
