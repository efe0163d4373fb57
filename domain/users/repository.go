package users

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/mindweave-labs/mindweave/pkg/apperror"
	"github.com/mindweave-labs/mindweave/pkg/logger"
	"github.com/mindweave-labs/mindweave/pkg/pgutils"
)

// Repository handles database operations for users.
type Repository struct {
	db  bun.IDB
	log *slog.Logger
}

func NewRepository(db bun.IDB, log *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With(logger.Scope("users.repo")),
	}
}

// Create inserts a user. Emails are unique; a duplicate maps to a
// conflict error rather than a database error.
func (r *Repository) Create(ctx context.Context, user *User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	_, err := r.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return apperror.ErrConflict.WithMessage("email already registered")
		}
		r.log.Error("failed to create user", logger.Error(err))
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// GetByEmail returns a user by email, case-insensitively.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	user := new(User)
	err := r.db.NewSelect().
		Model(user).
		Where("lower(u.email) = lower(?)", strings.TrimSpace(email)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		r.log.Error("failed to get user by email", logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return user, nil
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, userID int64) (*User, error) {
	user := new(User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		r.log.Error("failed to get user", slog.Int64("user_id", userID), logger.Error(err))
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return user, nil
}
