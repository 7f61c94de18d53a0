package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/adapter/metrics"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
)

type Messaging struct {
	messages domain.MessageRepository
	events   domain.EventBroadcaster
	metrics  *metrics.ActivityMetrics
}

// NewMessaging wires the direct-message use cases. m may be nil.
func NewMessaging(messages domain.MessageRepository, events domain.EventBroadcaster, m *metrics.ActivityMetrics) *Messaging {
	return &Messaging{messages: messages, events: events, metrics: m}
}

type SendMessageRequest struct {
	From     string
	To       string
	Content  *string
	MediaURL *string
	PostID   *string
}

// Conversation is the newest message exchanged with one partner.
type Conversation struct {
	PartnerID   string
	Username    string
	AvatarURL   *string
	LastMessage string
	SentAt      time.Time
}

// ThreadMessage is one line of a two-person thread, from the reader's side.
type ThreadMessage struct {
	ID     string
	Text   string
	FromMe bool
	SentAt time.Time
}

// SendMessage stores a direct message and pushes message_new to every
// connected client.
func (s *Messaging) SendMessage(ctx context.Context, req SendMessageRequest) (*domain.SentMessage, error) {
	if req.To == "" {
		return nil, domain.ErrMissingPeer
	}

	msg := domain.NewMessage{
		SenderID:   req.From,
		ReceiverID: req.To,
		Content:    nonEmpty(req.Content),
		MediaURL:   nonEmpty(req.MediaURL),
		PostID:     nonEmpty(req.PostID),
	}
	if msg.Content == nil && msg.MediaURL == nil && msg.PostID == nil {
		return nil, domain.ErrEmptyMessage
	}

	sent, err := s.messages.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	if s.metrics != nil {
		s.metrics.MessagesSent.Inc()
	}
	slog.DebugContext(ctx, "Message sent", "message_id", sent.Message.ID, "from", req.From, "to", req.To)

	publish(ctx, s.events, domain.NewMessageEvent(sent))
	return sent, nil
}

// Conversations lists the user's inbox: one entry per partner, newest first.
func (s *Messaging) Conversations(ctx context.Context, userID string) ([]Conversation, error) {
	rows, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}

	seen := make(map[string]struct{}, len(rows))
	out := make([]Conversation, 0)
	for _, row := range rows {
		if _, ok := seen[row.Partner.ID]; ok {
			continue
		}
		seen[row.Partner.ID] = struct{}{}

		out = append(out, Conversation{
			PartnerID:   row.Partner.ID,
			Username:    row.Partner.Username,
			AvatarURL:   row.Partner.AvatarURL,
			LastMessage: row.Message.Preview(),
			SentAt:      row.Message.SentAt,
		})
	}
	return out, nil
}

// Thread returns the messages between userID and partnerID, oldest first.
func (s *Messaging) Thread(ctx context.Context, userID, partnerID string) ([]ThreadMessage, error) {
	rows, err := s.messages.ListBetween(ctx, userID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	out := make([]ThreadMessage, len(rows))
	for i := range rows {
		out[i] = ThreadMessage{
			ID:     rows[i].ID,
			Text:   rows[i].Preview(),
			FromMe: rows[i].SenderID == userID,
			SentAt: rows[i].SentAt,
		}
	}
	return out, nil
}
