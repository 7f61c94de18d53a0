package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/errors"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRemoteIP   = "1.2.3.4"
	testRemoteAddr = testRemoteIP + ":1234"
)

type limitedRequest struct {
	remoteAddr string
	userID     string
}

func newLimitedHandler(ratePerSecond float64, burst int) func(t *testing.T, r limitedRequest) *httptest.ResponseRecorder {
	e := echo.New()
	e.HTTPErrorHandler = httpErrorHandler
	handler := ErrorHandlingMiddleware()(newRateLimiter(ratePerSecond, burst)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}))

	return func(t *testing.T, r limitedRequest) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = r.remoteAddr
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if r.userID != "" {
			c.Set(userIDKey, r.userID)
		}
		require.NoError(t, handler(c))
		return rec
	}
}

func TestRateLimiterAllowsRequestsUnderLimit(t *testing.T) {
	send := newLimitedHandler(10, 3) // 10 req/s, burst 3

	for range 3 {
		rec := send(t, limitedRequest{remoteAddr: testRemoteAddr})
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiterBlocksExcessiveRequests(t *testing.T) {
	send := newLimitedHandler(0.01, 1) // very low rate, burst 1

	first := send(t, limitedRequest{remoteAddr: testRemoteAddr})
	assert.Equal(t, http.StatusOK, first.Code)

	second := send(t, limitedRequest{remoteAddr: testRemoteAddr})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	resp := decodeError(t, second)
	assert.Equal(t, "rate limit exceeded", resp.Error)
	assert.Equal(t, apperrors.TypeRateLimited, resp.Type)
}

func TestRateLimiterDifferentIPsAreIndependent(t *testing.T) {
	send := newLimitedHandler(0.01, 1)

	assert.Equal(t, http.StatusOK, send(t, limitedRequest{remoteAddr: testRemoteAddr}).Code)
	assert.Equal(t, http.StatusOK, send(t, limitedRequest{remoteAddr: "5.6.7.8:5678"}).Code)
	assert.Equal(t, http.StatusTooManyRequests, send(t, limitedRequest{remoteAddr: testRemoteAddr}).Code)
}

func TestRateLimiterKeysByUserBeforeIP(t *testing.T) {
	send := newLimitedHandler(0.01, 1)

	// Same address, different users.
	assert.Equal(t, http.StatusOK, send(t, limitedRequest{remoteAddr: testRemoteAddr, userID: "alice"}).Code)
	assert.Equal(t, http.StatusOK, send(t, limitedRequest{remoteAddr: testRemoteAddr, userID: "bob"}).Code)
	assert.Equal(t, http.StatusOK, send(t, limitedRequest{remoteAddr: testRemoteAddr}).Code)

	// Same user, different addresses.
	assert.Equal(t, http.StatusTooManyRequests, send(t, limitedRequest{remoteAddr: "5.6.7.8:5678", userID: "alice"}).Code)
}
