package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) GetSummary(ctx context.Context, userID string) (*domain.UserSummary, error) {
	return getUserSummary(ctx, r.pool, userID)
}

func getUserSummary(ctx context.Context, q querier, userID string) (*domain.UserSummary, error) {
	var u domain.UserSummary
	err := q.QueryRow(ctx,
		`SELECT id, username, avatar_url FROM users WHERE id = $1`, userID,
	).Scan(&u.ID, &u.Username, &u.AvatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
