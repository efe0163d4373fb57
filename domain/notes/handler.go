package notes

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/auth"
)

// Handler handles HTTP requests for notes
type Handler struct {
	svc *Service
}

// NewHandler creates a new notes handler
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

// List handles GET /api/notes
func (h *Handler) List(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	result, err := h.svc.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get handles GET /api/notes/:id
func (h *Handler) Get(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	noteID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	note, err := h.svc.Get(c.Request().Context(), userID, noteID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, note)
}

// Create handles POST /api/notes
func (h *Handler) Create(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var req CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	resp, err := h.svc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

// Update handles PATCH /api/notes/:id
func (h *Handler) Update(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	noteID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		return apperror.ErrBadRequest.WithMessage("invalid request body")
	}

	resp, err := h.svc.Update(c.Request().Context(), userID, noteID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/notes/:id
func (h *Handler) Delete(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	noteID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), userID, noteID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
