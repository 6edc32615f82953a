package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trackly/tracker/internal/users/domain"
)

// UserRepository provides persistence operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id::text, email, password_hash, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a user. A duplicate email returns domain.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	const q = `
INSERT INTO users (id, email, password_hash)
VALUES ($1, $2, $3)
RETURNING ` + userColumns + `;
`
	u, err := scanUser(r.db.QueryRow(ctx, q, uuid.NewString(), strings.ToLower(email), passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	return scanUser(r.db.QueryRow(ctx, q, strings.ToLower(email)))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	return scanUser(r.db.QueryRow(ctx, q, id))
}

// Update sets the provided fields. passwordHash is already hashed.
func (r *UserRepository) Update(ctx context.Context, id string, email, passwordHash *string) (*domain.User, error) {
	const q = `
UPDATE users
SET email = COALESCE($2, email),
    password_hash = COALESCE($3, password_hash)
WHERE id = $1
RETURNING ` + userColumns + `;
`
	u, err := scanUser(r.db.QueryRow(ctx, q, id, email, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}
