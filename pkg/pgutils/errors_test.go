package pgutils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHasErrorCode(t *testing.T) {
	pgErr := &pgconn.PgError{Code: CodeUniqueViolation}

	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{name: "nil error", err: nil, code: CodeUniqueViolation, want: false},
		{name: "structured pg error", err: pgErr, code: CodeUniqueViolation, want: true},
		{name: "wrapped pg error", err: fmt.Errorf("insert note: %w", pgErr), code: CodeUniqueViolation, want: true},
		{name: "structured error with other code", err: pgErr, code: CodeForeignKeyViolation, want: false},
		{name: "stringified driver error", err: errors.New("ERROR: duplicate key value (SQLSTATE 23505)"), code: CodeUniqueViolation, want: true},
		{name: "bare code without SQLSTATE prefix", err: errors.New("constraint violation 23505"), code: CodeUniqueViolation, want: false},
		{name: "unrelated error", err: errors.New("connection refused"), code: CodeUniqueViolation, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasErrorCode(tt.err, tt.code))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestIsNotNullViolation(t *testing.T) {
	assert.True(t, IsNotNullViolation(errors.New("null value in column (SQLSTATE 23502)")))
	assert.False(t, IsNotNullViolation(errors.New("SQLSTATE 23505")))
}
