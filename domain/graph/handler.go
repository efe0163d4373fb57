package graph

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/auth"
)

// Handler handles HTTP requests for the graph
type Handler struct {
	svc *Service
}

// NewHandler creates a new graph handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ErrBadRequest.WithMessage("invalid " + name)
	}
	return id, nil
}

// GetGraph handles GET /api/graph
func (h *Handler) GetGraph(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	resp, err := h.svc.GetGraph(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// GetNode handles GET /api/graph/nodes/:id
func (h *Handler) GetNode(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	nodeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	node, err := h.svc.GetNode(c.Request().Context(), userID, nodeID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, node)
}

// CreateNode handles POST /api/graph/nodes
func (h *Handler) CreateNode(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var req CreateNodeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	node, err := h.svc.CreateNode(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, node)
}

// UpdateNode handles PATCH /api/graph/nodes/:id
func (h *Handler) UpdateNode(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	nodeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateNodeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	node, err := h.svc.UpdateNode(c.Request().Context(), userID, nodeID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, node)
}

// DeleteNode handles DELETE /api/graph/nodes/:id
func (h *Handler) DeleteNode(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	nodeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteNode(c.Request().Context(), userID, nodeID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListEdges handles GET /api/graph/edges
func (h *Handler) ListEdges(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	edges, err := h.svc.ListEdges(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if edges == nil {
		edges = []*GraphEdge{}
	}
	return c.JSON(http.StatusOK, edges)
}

// CreateEdge handles POST /api/graph/edges
func (h *Handler) CreateEdge(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var req CreateEdgeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	edge, err := h.svc.CreateEdge(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, edge)
}

// DeleteEdge handles DELETE /api/graph/edges/:id
func (h *Handler) DeleteEdge(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	edgeID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteEdge(c.Request().Context(), userID, edgeID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
