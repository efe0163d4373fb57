package rag

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/auth"
)

// Handler handles HTTP requests for question answering
type Handler struct {
	svc *Service
}

// NewHandler creates a new rag handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Ask handles POST /api/rag/ask
func (h *Handler) Ask(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	resp, err := h.svc.Ask(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
