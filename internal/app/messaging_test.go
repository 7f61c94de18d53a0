package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/adapter/metrics"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sentAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestSendMessage_StoresThenBroadcasts(t *testing.T) {
	var stored domain.NewMessage
	repo := &mockMessageRepo{
		createFn: func(_ context.Context, msg domain.NewMessage) (*domain.SentMessage, error) {
			stored = msg
			return &domain.SentMessage{
				Message:  domain.Message{ID: "m1", SenderID: msg.SenderID, ReceiverID: msg.ReceiverID, Content: msg.Content, SentAt: sentAt},
				Sender:   domain.UserSummary{ID: "u1", Username: "alice"},
				Receiver: domain.UserSummary{ID: "u2", Username: "bob"},
			}, nil
		},
	}
	events := &recordingBroadcaster{}
	m := metrics.NewActivityMetrics(prometheus.NewRegistry())
	svc := NewMessaging(repo, events, m)

	sent, err := svc.SendMessage(context.Background(), SendMessageRequest{
		From: "u1", To: "u2", Content: ptr("hello"), MediaURL: ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", sent.Message.ID)
	assert.Nil(t, stored.MediaURL, "empty strings are stored as null")

	require.Len(t, events.sent(), 1)
	ev, ok := events.sent()[0].(domain.MessageNew)
	require.True(t, ok)
	assert.Equal(t, "m1", ev.ID)
	assert.Equal(t, "alice", ev.FromUsername)
	assert.Equal(t, "bob", ev.ToUsername)
	assert.Equal(t, sentAt, ev.SentAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesSent))
}

func TestSendMessage_Validation(t *testing.T) {
	svc := NewMessaging(&mockMessageRepo{}, &recordingBroadcaster{}, nil)

	_, err := svc.SendMessage(context.Background(), SendMessageRequest{From: "u1", Content: ptr("hi")})
	assert.ErrorIs(t, err, domain.ErrMissingPeer)

	_, err = svc.SendMessage(context.Background(), SendMessageRequest{From: "u1", To: "u2", Content: ptr("")})
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}

func TestSendMessage_PostOnlyIsValid(t *testing.T) {
	repo := &mockMessageRepo{
		createFn: func(_ context.Context, msg domain.NewMessage) (*domain.SentMessage, error) {
			return &domain.SentMessage{Message: domain.Message{ID: "m2", PostID: msg.PostID, ReceiverID: msg.ReceiverID}}, nil
		},
	}
	svc := NewMessaging(repo, &recordingBroadcaster{}, nil)

	sent, err := svc.SendMessage(context.Background(), SendMessageRequest{From: "u1", To: "u2", PostID: ptr("p9")})
	require.NoError(t, err)
	assert.Equal(t, "p9", *sent.Message.PostID)
}

func TestSendMessage_StoreFailureDoesNotBroadcast(t *testing.T) {
	repo := &mockMessageRepo{
		createFn: func(context.Context, domain.NewMessage) (*domain.SentMessage, error) {
			return nil, errors.New("db down")
		},
	}
	events := &recordingBroadcaster{}
	svc := NewMessaging(repo, events, nil)

	_, err := svc.SendMessage(context.Background(), SendMessageRequest{From: "u1", To: "u2", Content: ptr("hi")})
	require.Error(t, err)
	assert.Empty(t, events.sent())
}

func TestSendMessage_BroadcastFailureIsNotReturned(t *testing.T) {
	repo := &mockMessageRepo{
		createFn: func(context.Context, domain.NewMessage) (*domain.SentMessage, error) {
			return &domain.SentMessage{Message: domain.Message{ID: "m1"}}, nil
		},
	}
	svc := NewMessaging(repo, &recordingBroadcaster{err: errors.New("encode failed")}, nil)

	_, err := svc.SendMessage(context.Background(), SendMessageRequest{From: "u1", To: "u2", Content: ptr("hi")})
	assert.NoError(t, err)
}

func TestConversations_LatestPerPartner(t *testing.T) {
	alice := domain.UserSummary{ID: "alice", Username: "alice"}
	carol := domain.UserSummary{ID: "carol", Username: "carol", AvatarURL: ptr("c.png")}
	repo := &mockMessageRepo{
		listForUserFn: func(_ context.Context, userID string) ([]domain.ConversationMessage, error) {
			assert.Equal(t, "me", userID)
			return []domain.ConversationMessage{
				{Partner: alice, Message: domain.Message{ID: "3", PostID: ptr("p1"), SentAt: sentAt.Add(3 * time.Minute)}},
				{Partner: carol, Message: domain.Message{ID: "2", MediaURL: ptr("x.png"), SentAt: sentAt.Add(2 * time.Minute)}},
				{Partner: alice, Message: domain.Message{ID: "1", Content: ptr("older"), SentAt: sentAt}},
			}, nil
		},
	}
	svc := NewMessaging(repo, &recordingBroadcaster{}, nil)

	convs, err := svc.Conversations(context.Background(), "me")
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, "alice", convs[0].PartnerID)
	assert.Equal(t, "Shared a post", convs[0].LastMessage)
	assert.Equal(t, "carol", convs[1].PartnerID)
	assert.Equal(t, "Sent media", convs[1].LastMessage)
	assert.Equal(t, "c.png", *convs[1].AvatarURL)
}

func TestConversations_EmptyInbox(t *testing.T) {
	repo := &mockMessageRepo{
		listForUserFn: func(context.Context, string) ([]domain.ConversationMessage, error) { return nil, nil },
	}
	convs, err := NewMessaging(repo, &recordingBroadcaster{}, nil).Conversations(context.Background(), "me")
	require.NoError(t, err)
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
}

func TestThread_MarksSender(t *testing.T) {
	repo := &mockMessageRepo{
		listBetweenFn: func(_ context.Context, userID, partnerID string) ([]domain.Message, error) {
			return []domain.Message{
				{ID: "1", SenderID: partnerID, Content: ptr("hi"), SentAt: sentAt},
				{ID: "2", SenderID: userID, Content: ptr("hey"), SentAt: sentAt.Add(time.Minute)},
			}, nil
		},
	}
	msgs, err := NewMessaging(repo, &recordingBroadcaster{}, nil).Thread(context.Background(), "me", "bob")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.False(t, msgs[0].FromMe)
	assert.Equal(t, "hi", msgs[0].Text)
	assert.True(t, msgs[1].FromMe)
}

func TestThread_RepoError(t *testing.T) {
	repo := &mockMessageRepo{
		listBetweenFn: func(context.Context, string, string) ([]domain.Message, error) {
			return nil, errors.New("db down")
		},
	}
	_, err := NewMessaging(repo, &recordingBroadcaster{}, nil).Thread(context.Background(), "me", "bob")
	assert.ErrorContains(t, err, "failed to load messages")
}
