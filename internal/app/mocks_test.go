package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
)

type mockMessageRepo struct {
	createFn      func(ctx context.Context, msg domain.NewMessage) (*domain.SentMessage, error)
	listForUserFn func(ctx context.Context, userID string) ([]domain.ConversationMessage, error)
	listBetweenFn func(ctx context.Context, userID, partnerID string) ([]domain.Message, error)
}

func (m *mockMessageRepo) Create(ctx context.Context, msg domain.NewMessage) (*domain.SentMessage, error) {
	if m.createFn != nil {
		return m.createFn(ctx, msg)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockMessageRepo) ListForUser(ctx context.Context, userID string) ([]domain.ConversationMessage, error) {
	if m.listForUserFn != nil {
		return m.listForUserFn(ctx, userID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockMessageRepo) ListBetween(ctx context.Context, userID, partnerID string) ([]domain.Message, error) {
	if m.listBetweenFn != nil {
		return m.listBetweenFn(ctx, userID, partnerID)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockPostRepo struct {
	toggleLikeFn func(ctx context.Context, userID, postID string) (*domain.LikeResult, error)
	addCommentFn func(ctx context.Context, userID, postID, content string) (*domain.CommentResult, error)
}

func (m *mockPostRepo) ToggleLike(ctx context.Context, userID, postID string) (*domain.LikeResult, error) {
	if m.toggleLikeFn != nil {
		return m.toggleLikeFn(ctx, userID, postID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockPostRepo) AddComment(ctx context.Context, userID, postID, content string) (*domain.CommentResult, error) {
	if m.addCommentFn != nil {
		return m.addCommentFn(ctx, userID, postID, content)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockDebouncer struct {
	allowFn func(ctx context.Context, userID, postID string) (bool, error)
}

func (m *mockDebouncer) Allow(ctx context.Context, userID, postID string) (bool, error) {
	if m.allowFn != nil {
		return m.allowFn(ctx, userID, postID)
	}
	return true, nil
}

// recordingBroadcaster captures every event passed to Broadcast.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (r *recordingBroadcaster) Broadcast(_ context.Context, ev domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingBroadcaster) sent() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func ptr(s string) *string { return &s }
