package files

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/auth"
)

// Handler handles HTTP requests for files
type Handler struct {
	svc *Service
}

// NewHandler creates a new files handler
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

// List handles GET /api/files
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

// Get handles GET /api/files/:id
func (h *Handler) Get(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	fileID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	file, err := h.svc.Get(c.Request().Context(), userID, fileID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, file)
}

// Upload handles POST /api/files as multipart form data with a "file" part.
func (h *Handler) Upload(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperror.ErrBadRequest.WithMessage("multipart field 'file' is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return apperror.ErrBadRequest.WithMessage("failed to read uploaded file")
	}
	defer src.Close()

	file, err := h.svc.Upload(
		c.Request().Context(),
		userID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		src,
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, file)
}

// DownloadURL handles GET /api/files/:id/download
func (h *Handler) DownloadURL(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	fileID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	url, err := h.svc.DownloadURL(c.Request().Context(), userID, fileID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// Delete handles DELETE /api/files/:id
func (h *Handler) Delete(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	fileID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), userID, fileID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
