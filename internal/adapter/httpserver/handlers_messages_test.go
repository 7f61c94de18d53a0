package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/app"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/config"
	apperrors "github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sentAt = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func TestSendMessage_Created(t *testing.T) {
	var got app.SendMessageRequest
	messaging := &mockMessaging{
		sendMessageFn: func(_ context.Context, req app.SendMessageRequest) (*domain.SentMessage, error) {
			got = req
			return &domain.SentMessage{
				Message: domain.Message{
					ID:         "msg-1",
					SenderID:   req.From,
					ReceiverID: req.To,
					Content:    req.Content,
					SentAt:     sentAt,
				},
			}, nil
		},
	}
	srv := newTestServer(t, withMessaging(messaging))

	rec := do(t, srv, http.MethodPost, "/messages/send", tokenFor(t, "alice"), `{"to":"bob","content":"hi"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":"msg-1","content":"hi","sentAt":"2026-03-14T09:26:53Z","to":"bob"}`, rec.Body.String())
	assert.Equal(t, "alice", got.From)
	assert.Equal(t, "bob", got.To)
	require.NotNil(t, got.Content)
	assert.Equal(t, "hi", *got.Content)
	assert.Nil(t, got.MediaURL)
}

func TestSendMessage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"missing peer", domain.ErrMissingPeer, http.StatusBadRequest, "Missing 'to'"},
		{"empty", domain.ErrEmptyMessage, http.StatusBadRequest, "Message is empty"},
		{"unknown receiver", fmt.Errorf("failed to store message: %w", domain.ErrUserNotFound), http.StatusNotFound, "User not found"},
		{"unknown post", fmt.Errorf("failed to store message: %w", domain.ErrPostNotFound), http.StatusNotFound, "Post not found"},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messaging := &mockMessaging{
				sendMessageFn: func(context.Context, app.SendMessageRequest) (*domain.SentMessage, error) {
					return nil, tt.err
				},
			}
			srv := newTestServer(t, withMessaging(messaging))

			rec := do(t, srv, http.MethodPost, "/messages/send", tokenFor(t, "alice"), `{"to":"bob"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec).Error)
		})
	}
}

func TestSendMessage_InvalidBody(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/messages/send", tokenFor(t, "alice"), `{"to":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessage_RateLimited(t *testing.T) {
	messaging := &mockMessaging{
		sendMessageFn: func(_ context.Context, req app.SendMessageRequest) (*domain.SentMessage, error) {
			return &domain.SentMessage{Message: domain.Message{ID: "m", ReceiverID: req.To, SentAt: sentAt}}, nil
		},
	}
	srv := newTestServer(t, withMessaging(messaging), withConfig(func(cfg *config.Config) {
		cfg.MessageRateLimit = 0.01
		cfg.MessageRateBurst = 1
	}))
	token := tokenFor(t, "alice")

	first := do(t, srv, http.MethodPost, "/messages/send", token, `{"to":"bob","content":"1"}`)
	second := do(t, srv, http.MethodPost, "/messages/send", token, `{"to":"bob","content":"2"}`)
	other := do(t, srv, http.MethodPost, "/messages/send", tokenFor(t, "carol"), `{"to":"bob","content":"3"}`)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	resp := decodeError(t, second)
	assert.Equal(t, apperrors.TypeRateLimited, resp.Type)
	assert.Equal(t, "rate limit exceeded", resp.Error)
	assert.Equal(t, http.StatusCreated, other.Code, "limit is per user")
}

func TestConversations(t *testing.T) {
	avatar := "https://cdn.example/bob.png"
	messaging := &mockMessaging{
		conversationsFn: func(_ context.Context, userID string) ([]app.Conversation, error) {
			assert.Equal(t, "alice", userID)
			return []app.Conversation{
				{PartnerID: "bob", Username: "bob", AvatarURL: &avatar, LastMessage: "see you", SentAt: sentAt},
				{PartnerID: "carol", Username: "carol", LastMessage: "Shared a post", SentAt: sentAt.Add(-time.Hour)},
			}, nil
		},
	}
	srv := newTestServer(t, withMessaging(messaging))

	rec := do(t, srv, http.MethodGet, "/messages/conversations", tokenFor(t, "alice"), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"partnerId":"bob","username":"bob","avatarUrl":"https://cdn.example/bob.png","lastMessage":"see you","sentAt":"2026-03-14T09:26:53Z"},
		{"partnerId":"carol","username":"carol","avatarUrl":null,"lastMessage":"Shared a post","sentAt":"2026-03-14T08:26:53Z"}
	]`, rec.Body.String())
}

func TestConversations_Empty(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/messages/conversations", tokenFor(t, "alice"), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestConversations_Error(t *testing.T) {
	messaging := &mockMessaging{
		conversationsFn: func(context.Context, string) ([]app.Conversation, error) {
			return nil, errors.New("db down")
		},
	}
	srv := newTestServer(t, withMessaging(messaging))

	rec := do(t, srv, http.MethodGet, "/messages/conversations", tokenFor(t, "alice"), "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to load conversations", decodeError(t, rec).Error)
}

func TestThread(t *testing.T) {
	messaging := &mockMessaging{
		threadFn: func(_ context.Context, userID, partnerID string) ([]app.ThreadMessage, error) {
			assert.Equal(t, "alice", userID)
			assert.Equal(t, "bob", partnerID)
			return []app.ThreadMessage{
				{ID: "m1", Text: "hi", FromMe: true, SentAt: sentAt},
				{ID: "m2", Text: "Sent media", FromMe: false, SentAt: sentAt.In(time.FixedZone("CET", 3600))},
			}, nil
		},
	}
	srv := newTestServer(t, withMessaging(messaging))

	rec := do(t, srv, http.MethodGet, "/messages/with/bob", tokenFor(t, "alice"), "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []threadMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, threadMessageResponse{ID: "m1", Text: "hi", Sender: "me", Timestamp: "2026-03-14T09:26:53Z"}, got[0])
	assert.Equal(t, threadMessageResponse{ID: "m2", Text: "Sent media", Sender: "other", Timestamp: "2026-03-14T09:26:53Z"}, got[1])
}
