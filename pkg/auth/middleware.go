package auth

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/logger"
)

var Module = fx.Module("auth",
	fx.Provide(
		NewTokenService,
		NewMiddleware,
	),
)

// AuthUser represents an authenticated user
type AuthUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
}

type contextKey string

const UserContextKey contextKey = "auth_user"

// GetUser retrieves the authenticated user from the Echo context
func GetUser(c echo.Context) *AuthUser {
	if user, ok := c.Get(string(UserContextKey)).(*AuthUser); ok {
		return user
	}
	return nil
}

// UserID returns the authenticated user's ID, or ErrUnauthorized when the
// request carries no authenticated user.
func UserID(c echo.Context) (int64, error) {
	user := GetUser(c)
	if user == nil {
		return 0, apperror.ErrUnauthorized
	}
	return user.ID, nil
}

// Middleware handles authentication for routes
type Middleware struct {
	tokens *TokenService
	log    *slog.Logger
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(tokens *TokenService, log *slog.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		log:    log.With(logger.Scope("auth")),
	}
}

// RequireAuth returns middleware that requires a valid bearer token
func (m *Middleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, err := extractBearer(c)
			if err != nil {
				return err
			}

			userID, claims, err := m.tokens.Verify(tokenStr)
			if err != nil {
				m.log.Warn("authentication failed", logger.Error(err))
				return err
			}

			c.Set(string(UserContextKey), &AuthUser{
				ID:    userID,
				Email: claims.Email,
			})

			return next(c)
		}
	}
}

func extractBearer(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", apperror.ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperror.ErrInvalidToken.WithMessage("malformed authorization header")
	}

	return parts[1], nil
}
