package domain

import "context"

// UserSummary is the public face of a user: enough to render a name and
// avatar next to a message or comment.
type UserSummary struct {
	ID        string
	Username  string
	AvatarURL *string
}

type UserRepository interface {
	GetSummary(ctx context.Context, userID string) (*UserSummary, error)
}
