package users

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindweave-labs/mindweave/internal/config"
	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/auth"
)

func newValidationService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.BcryptCost = bcrypt.MinCost
	return NewService(nil, auth.NewTokenService(cfg), cfg, slog.Default())
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	svc := newValidationService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "not-an-email",
		Password: "long enough password",
	})
	assert.True(t, apperror.ErrValidation.Is(err))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newValidationService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "short",
	})
	assert.True(t, apperror.ErrValidation.Is(err))
}

func TestNewServiceClampsBcryptCost(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.BcryptCost = 99

	svc := NewService(nil, auth.NewTokenService(cfg), cfg, slog.Default())
	assert.Equal(t, bcrypt.DefaultCost, svc.bcryptCost)
}
