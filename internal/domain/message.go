package domain

import (
	"context"
	"time"
)

type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Content    *string
	MediaURL   *string
	PostID     *string
	SentAt     time.Time
}

// Preview is the single line shown for a message in inbox lists.
func (m *Message) Preview() string {
	switch {
	case m.Content != nil && *m.Content != "":
		return *m.Content
	case m.PostID != nil && *m.PostID != "":
		return "Shared a post"
	case m.MediaURL != nil && *m.MediaURL != "":
		return "Sent media"
	default:
		return ""
	}
}

// NewMessage is the input for storing a direct message.
type NewMessage struct {
	SenderID   string
	ReceiverID string
	Content    *string
	MediaURL   *string
	PostID     *string
}

// SentMessage is a stored message together with both participants, loaded in
// the same transaction as the insert.
type SentMessage struct {
	Message  Message
	Sender   UserSummary
	Receiver UserSummary
}

// ConversationMessage is a message joined with the partner it was exchanged
// with, as seen from one user's inbox.
type ConversationMessage struct {
	Message Message
	Partner UserSummary
}

type MessageRepository interface {
	// Create inserts msg and loads sender and receiver atomically.
	Create(ctx context.Context, msg NewMessage) (*SentMessage, error)
	// ListForUser returns every message the user sent or received, newest first.
	ListForUser(ctx context.Context, userID string) ([]ConversationMessage, error)
	// ListBetween returns the messages exchanged by two users, oldest first.
	ListBetween(ctx context.Context, userID, partnerID string) ([]Message, error)
}
