package httpserver

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	userIDKey   = "userID"
	userIDClaim = "userId"
)

var (
	errMissingToken = errors.New("missing token")
	errInvalidToken = errors.New("invalid token")
)

// TokenVerifier validates HS256 bearer tokens issued by the account service.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Verify returns the user ID carried by token.
func (v *TokenVerifier) Verify(token string) (string, error) {
	if token == "" {
		return "", errMissingToken
	}

	claims := jwt.MapClaims{}
	if _, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}); err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidToken, err)
	}

	userID, ok := claims[userIDClaim].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%w: claim %q missing", errInvalidToken, userIDClaim)
	}
	return userID, nil
}

// extractToken accepts "Bearer <jwt>" as well as a bare token.
func extractToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return header
}

// authOptional attaches the caller's user ID when a valid token is present
// and otherwise lets the request through anonymously.
func (s *Server) authOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if token == "" {
			return next(c)
		}
		if userID, err := s.tokens.Verify(token); err == nil {
			c.Set(userIDKey, userID)
		}
		return next(c)
	}
}

func (s *Server) authRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := currentUserID(c); ok {
			return next(c)
		}

		token := extractToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if token == "" {
			return apperrors.UnauthorizedError("Missing token")
		}
		userID, err := s.tokens.Verify(token)
		if err != nil {
			return apperrors.UnauthorizedError("Invalid token")
		}
		c.Set(userIDKey, userID)
		return next(c)
	}
}

func currentUserID(c echo.Context) (string, bool) {
	userID, ok := c.Get(userIDKey).(string)
	return userID, ok && userID != ""
}
