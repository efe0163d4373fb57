package users

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mindweave-labs/mindweave/internal/config"
	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/auth"
	"github.com/mindweave-labs/mindweave/pkg/logger"
)

const minPasswordLength = 8

// Service handles registration and login.
type Service struct {
	repo       *Repository
	tokens     *auth.TokenService
	bcryptCost int
	log        *slog.Logger
}

func NewService(repo *Repository, tokens *auth.TokenService, cfg *config.Config, log *slog.Logger) *Service {
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: cost,
		log:        log.With(logger.Scope("users.service")),
	}
}

// Register creates a user and returns a signed token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ErrValidation.WithMessage("invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperror.ErrValidation.WithMessage("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	user := &User{Email: email, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperror.NewInternal("failed to issue token", err)
	}

	s.log.Info("user registered", slog.Int64("user_id", user.ID))
	return &AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and returns a signed token. Wrong email and
// wrong password produce the same error.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperror.ErrUserNotFound.Is(err) {
			return nil, apperror.ErrUnauthorized.WithMessage("invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.ErrUnauthorized.WithMessage("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.ErrUnauthorized.WithMessage("invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperror.NewInternal("failed to issue token", err)
	}
	return &AuthResponse{Token: token, User: user}, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}
