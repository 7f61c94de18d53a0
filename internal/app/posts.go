package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/adapter/metrics"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
)

const maxCommentLength = 2000

type Posts struct {
	posts    domain.PostRepository
	debounce domain.LikeDebouncer
	events   domain.EventBroadcaster
	metrics  *metrics.ActivityMetrics
}

// NewPosts wires the like and comment use cases. m may be nil.
func NewPosts(posts domain.PostRepository, debounce domain.LikeDebouncer, events domain.EventBroadcaster, m *metrics.ActivityMetrics) *Posts {
	return &Posts{posts: posts, debounce: debounce, events: events, metrics: m}
}

// ToggleLike flips the user's like on a post and pushes the new count.
func (s *Posts) ToggleLike(ctx context.Context, userID, postID string) (*domain.LikeResult, error) {
	allowed, err := s.debounce.Allow(ctx, userID, postID)
	if err != nil {
		// Fail open: a Redis outage must not block likes.
		slog.WarnContext(ctx, "Like debounce check failed, allowing toggle", "user_id", userID, "post_id", postID, "error", err)
		allowed = true
	}
	if !allowed {
		s.countLike("debounced")
		return nil, domain.ErrLikeDebounced
	}

	res, err := s.posts.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	if res.Liked {
		s.countLike("liked")
	} else {
		s.countLike("unliked")
	}

	publish(ctx, s.events, domain.PostLikeUpdated{PostID: postID, LikeCount: res.LikeCount})
	return res, nil
}

// AddComment stores a comment and pushes it with the post's new count.
func (s *Posts) AddComment(ctx context.Context, userID, postID, content string) (*domain.CommentResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyComment
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, domain.ErrCommentTooLong
	}

	res, err := s.posts.AddComment(ctx, userID, postID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CommentsAdded.Inc()
	}

	publish(ctx, s.events, domain.NewCommentEvent(res))
	return res, nil
}

func (s *Posts) countLike(result string) {
	if s.metrics != nil {
		s.metrics.LikesToggled.WithLabelValues(result).Inc()
	}
}
