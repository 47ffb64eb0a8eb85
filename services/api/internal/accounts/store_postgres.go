package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (s *PostgresUserStore) Create(ctx context.Context, email, passwordHash string) (User, error) {
	const q = `
INSERT INTO users (id, email, password_hash)
VALUES ($1, $2, $3)
RETURNING id::text, email, created_at;
`
	var u User
	err := s.pool.QueryRow(ctx, q, uuid.New(), email, passwordHash).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (User, string, error) {
	const q = `
SELECT id::text, email, password_hash, created_at
FROM users
WHERE lower(email) = lower($1)
LIMIT 1;
`
	var (
		u    User
		hash string
	)
	err := s.pool.QueryRow(ctx, q, strings.TrimSpace(email)).Scan(&u.ID, &u.Email, &hash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, "", ErrNotFound
		}
		return User{}, "", err
	}
	return u, hash, nil
}
