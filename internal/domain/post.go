package domain

import (
	"context"
	"time"
)

type Comment struct {
	ID        string
	PostID    string
	Author    UserSummary
	Content   string
	CreatedAt time.Time
}

// LikeResult is the state of a post's like after a toggle.
type LikeResult struct {
	Liked     bool
	LikeCount int
}

// CommentResult is a stored comment plus the post's new comment count.
type CommentResult struct {
	Comment      Comment
	CommentCount int
}

type PostRepository interface {
	// ToggleLike adds or removes the user's like and adjusts the post's
	// like count in one transaction.
	ToggleLike(ctx context.Context, userID, postID string) (*LikeResult, error)
	// AddComment stores the comment and increments the post's comment count
	// in one transaction.
	AddComment(ctx context.Context, userID, postID, content string) (*CommentResult, error)
}

// LikeDebouncer rate-limits like toggles per (user, post). Allow reports
// false when the pair toggled within the debounce window.
type LikeDebouncer interface {
	Allow(ctx context.Context, userID, postID string) (bool, error)
}
