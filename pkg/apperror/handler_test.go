package apperror

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execHandler(t *testing.T, method string, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := HTTPErrorHandler(slog.Default())
	handler(err, c)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHTTPErrorHandler_AppError(t *testing.T) {
	rec, body := execHandler(t, http.MethodGet, ErrNotOwner)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "not_owner", errObj["code"])
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	rec, body := execHandler(t, http.MethodGet, echo.NewHTTPError(http.StatusNotFound, "no such route"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "not_found", errObj["code"])
	assert.Equal(t, "no such route", errObj["message"])
}

func TestHTTPErrorHandler_UnknownError(t *testing.T) {
	rec, body := execHandler(t, http.MethodGet, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "internal_error", errObj["code"])
	// Internal details are never leaked to the client
	assert.Equal(t, "An internal error occurred", errObj["message"])
}

func TestHTTPErrorHandler_HeadRequestHasNoBody(t *testing.T) {
	rec, _ := execHandler(t, http.MethodHead, ErrNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, rec.Body.Len())
}
