package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/app"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

// --- Function-field service mocks ---

type mockMessaging struct {
	sendMessageFn   func(ctx context.Context, req app.SendMessageRequest) (*domain.SentMessage, error)
	conversationsFn func(ctx context.Context, userID string) ([]app.Conversation, error)
	threadFn        func(ctx context.Context, userID, partnerID string) ([]app.ThreadMessage, error)
}

func (m *mockMessaging) SendMessage(ctx context.Context, req app.SendMessageRequest) (*domain.SentMessage, error) {
	if m.sendMessageFn != nil {
		return m.sendMessageFn(ctx, req)
	}
	return nil, nil
}

func (m *mockMessaging) Conversations(ctx context.Context, userID string) ([]app.Conversation, error) {
	if m.conversationsFn != nil {
		return m.conversationsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockMessaging) Thread(ctx context.Context, userID, partnerID string) ([]app.ThreadMessage, error) {
	if m.threadFn != nil {
		return m.threadFn(ctx, userID, partnerID)
	}
	return nil, nil
}

type mockPosts struct {
	toggleLikeFn func(ctx context.Context, userID, postID string) (*domain.LikeResult, error)
	addCommentFn func(ctx context.Context, userID, postID, content string) (*domain.CommentResult, error)
}

func (m *mockPosts) ToggleLike(ctx context.Context, userID, postID string) (*domain.LikeResult, error) {
	if m.toggleLikeFn != nil {
		return m.toggleLikeFn(ctx, userID, postID)
	}
	return &domain.LikeResult{}, nil
}

func (m *mockPosts) AddComment(ctx context.Context, userID, postID, content string) (*domain.CommentResult, error) {
	if m.addCommentFn != nil {
		return m.addCommentFn(ctx, userID, postID, content)
	}
	return nil, nil
}

// --- Test server ---

type testServerDeps struct {
	messaging messagingService
	posts     postService
	events    http.Handler
	cfg       *config.Config
	opts      []Option
}

type testServerOption func(*testServerDeps)

func withMessaging(m messagingService) testServerOption {
	return func(d *testServerDeps) { d.messaging = m }
}

func withPosts(p postService) testServerOption {
	return func(d *testServerDeps) { d.posts = p }
}

func withEvents(h http.Handler) testServerOption {
	return func(d *testServerDeps) { d.events = h }
}

func withConfig(mutate func(*config.Config)) testServerOption {
	return func(d *testServerDeps) { mutate(d.cfg) }
}

func withServerOptions(opts ...Option) testServerOption {
	return func(d *testServerDeps) { d.opts = append(d.opts, opts...) }
}

func withHealthChecks(checks ...HealthCheck) testServerOption {
	return withServerOptions(WithHealthChecks(checks...))
}

func newTestServer(t *testing.T, opts ...testServerOption) *Server {
	t.Helper()

	deps := &testServerDeps{
		messaging: &mockMessaging{},
		posts:     &mockPosts{},
		events:    http.NotFoundHandler(),
		cfg: &config.Config{
			AppEnv:           "test",
			Port:             "0",
			JWTSecret:        testSecret,
			FrontendOrigin:   "http://localhost:3000",
			MessageRateLimit: 100,
			MessageRateBurst: 100,
		},
	}
	for _, opt := range opts {
		opt(deps)
	}

	return NewServer(deps.cfg, deps.messaging, deps.posts, deps.events, deps.opts...)
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	return signToken(t, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
}

// do sends a request through the full middleware chain.
func do(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

