package rag

import (
	"github.com/labstack/echo/v4"

	"github.com/mindweave-labs/mindweave/pkg/auth"
)

// RegisterRoutes registers the question answering routes
func RegisterRoutes(e *echo.Echo, handler *Handler, authMiddleware *auth.Middleware) {
	g := e.Group("/api/rag")
	g.Use(authMiddleware.RequireAuth())

	g.POST("/ask", handler.Ask)
}
