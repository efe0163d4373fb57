package graph

import (
	"github.com/labstack/echo/v4"

	"github.com/mindweave-labs/mindweave/pkg/auth"
)

// RegisterRoutes registers the graph routes
func RegisterRoutes(e *echo.Echo, handler *Handler, authMiddleware *auth.Middleware) {
	g := e.Group("/api/graph")
	g.Use(authMiddleware.RequireAuth())

	g.GET("", handler.GetGraph)

	g.GET("/nodes/:id", handler.GetNode)
	g.POST("/nodes", handler.CreateNode)
	g.PATCH("/nodes/:id", handler.UpdateNode)
	g.DELETE("/nodes/:id", handler.DeleteNode)

	g.GET("/edges", handler.ListEdges)
	g.POST("/edges", handler.CreateEdge)
	g.DELETE("/edges/:id", handler.DeleteEdge)
}
