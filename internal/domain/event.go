package domain

import (
	"context"
	"time"
)

// Event names on the push channel.
const (
	EventConnected        = "connected"
	EventMessageNew       = "message_new"
	EventPostLikeUpdated  = "post_like_updated"
	EventPostCommentAdded = "post_comment_added"
)

// Event is the closed set of payloads that may be pushed to clients. The
// value itself is JSON-encoded as the frame's data line.
type Event interface {
	EventName() string
	isEvent()
}

// Connected is sent once when a push connection opens.
type Connected struct{}

type MessageNew struct {
	ID            string    `json:"id"`
	Content       *string   `json:"content"`
	MediaURL      *string   `json:"mediaUrl"`
	PostID        *string   `json:"postId"`
	FromUserID    string    `json:"fromUserId"`
	ToUserID      string    `json:"toUserId"`
	FromUsername  string    `json:"fromUsername"`
	ToUsername    string    `json:"toUsername"`
	FromAvatarURL *string   `json:"fromAvatarUrl"`
	ToAvatarURL   *string   `json:"toAvatarUrl"`
	SentAt        time.Time `json:"sentAt"`
}

type PostLikeUpdated struct {
	PostID    string `json:"postId"`
	LikeCount int    `json:"likeCount"`
}

type CommentPayload struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatarUrl"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostCommentAdded struct {
	PostID       string         `json:"postId"`
	CommentCount int            `json:"commentCount"`
	Comment      CommentPayload `json:"comment"`
}

func (Connected) EventName() string        { return EventConnected }
func (MessageNew) EventName() string       { return EventMessageNew }
func (PostLikeUpdated) EventName() string  { return EventPostLikeUpdated }
func (PostCommentAdded) EventName() string { return EventPostCommentAdded }

func (Connected) isEvent()        {}
func (MessageNew) isEvent()       {}
func (PostLikeUpdated) isEvent()  {}
func (PostCommentAdded) isEvent() {}

// NewMessageEvent builds the message_new payload from a stored message.
func NewMessageEvent(sent *SentMessage) MessageNew {
	return MessageNew{
		ID:            sent.Message.ID,
		Content:       sent.Message.Content,
		MediaURL:      sent.Message.MediaURL,
		PostID:        sent.Message.PostID,
		FromUserID:    sent.Sender.ID,
		ToUserID:      sent.Receiver.ID,
		FromUsername:  sent.Sender.Username,
		ToUsername:    sent.Receiver.Username,
		FromAvatarURL: sent.Sender.AvatarURL,
		ToAvatarURL:   sent.Receiver.AvatarURL,
		SentAt:        sent.Message.SentAt,
	}
}

// NewCommentEvent builds the post_comment_added payload.
func NewCommentEvent(res *CommentResult) PostCommentAdded {
	c := res.Comment
	return PostCommentAdded{
		PostID:       c.PostID,
		CommentCount: res.CommentCount,
		Comment: CommentPayload{
			ID:        c.ID,
			PostID:    c.PostID,
			UserID:    c.Author.ID,
			Username:  c.Author.Username,
			AvatarURL: c.Author.AvatarURL,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		},
	}
}

// EventBroadcaster pushes an event to every connected client. Delivery is
// best-effort; the returned error only reports events that cannot be encoded.
type EventBroadcaster interface {
	Broadcast(ctx context.Context, event Event) error
}
