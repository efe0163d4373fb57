package users

import (
	"github.com/labstack/echo/v4"

	"github.com/mindweave-labs/mindweave/pkg/auth"
)

// RegisterRoutes registers the authentication routes
func RegisterRoutes(e *echo.Echo, handler *Handler, authMiddleware *auth.Middleware) {
	g := e.Group("/api/auth")

	g.POST("/register", handler.Register)
	g.POST("/login", handler.Login)
	g.GET("/me", handler.Me, authMiddleware.RequireAuth())
}
