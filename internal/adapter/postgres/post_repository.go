package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func (r *PostRepo) ToggleLike(ctx context.Context, userID, postID string) (*domain.LikeResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Row lock serialises concurrent toggles on the same post.
	var locked string
	err = tx.QueryRow(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock post: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove like: %w", err)
	}

	res := domain.LikeResult{Liked: tag.RowsAffected() == 0}
	delta := -1
	if res.Liked {
		delta = 1
		_, err := tx.Exec(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
		if isForeignKeyViolation(err, "") {
			return nil, domain.ErrUserNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to add like: %w", err)
		}
	}

	err = tx.QueryRow(ctx, `
		UPDATE posts SET like_count = GREATEST(like_count + $2, 0)
		WHERE id = $1
		RETURNING like_count`, postID, delta,
	).Scan(&res.LikeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to update like count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit like: %w", err)
	}
	return &res, nil
}

func (r *PostRepo) AddComment(ctx context.Context, userID, postID, content string) (*domain.CommentResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var res domain.CommentResult
	err = tx.QueryRow(ctx, `
		UPDATE posts SET comment_count = comment_count + 1
		WHERE id = $1
		RETURNING comment_count`, postID,
	).Scan(&res.CommentCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update comment count: %w", err)
	}

	author, err := getUserSummary(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	c := &res.Comment
	c.ID = uuid.NewString()
	c.PostID = postID
	c.Author = *author
	c.Content = content
	err = tx.QueryRow(ctx, `
		INSERT INTO comments (id, post_id, user_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`, c.ID, postID, userID, content,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit comment: %w", err)
	}
	return &res, nil
}
