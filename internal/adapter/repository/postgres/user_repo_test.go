package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/partytreasury/internal/domain"
)

func TestUserRepositoryGetByEmailMissing(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM users WHERE email").WithArgs("nobody@example.com").WillReturnError(pgx.ErrNoRows)

	_, err := NewUserRepository(pool).GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("INSERT INTO users").WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := NewUserRepository(pool).Create(context.Background(), &domain.User{ID: "u1", Email: "a@b.co"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
