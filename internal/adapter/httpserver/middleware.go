package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/correlation"
	apperrors "github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/errors"
	"github.com/labstack/echo/v4"
)

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := correlation.FromHeader(c.Request().Header.Get(correlation.HeaderName))
		c.Response().Header().Set(correlation.HeaderName, id)

		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func ErrorHandlingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}

			// Headers already went out; nothing useful can be written.
			if c.Response().Committed {
				slog.DebugContext(c.Request().Context(), "Error after response committed", "path", c.Request().URL.Path, "error", err)
				return nil
			}

			structuredErr := apperrors.AsStructuredError(mapDomainError(err))
			logError(c, structuredErr)

			if err := c.JSON(structuredErr.HTTPStatus(), structuredErr.ToResponse()); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

// mapDomainError translates domain sentinels that reach the edge unhandled.
func mapDomainError(err error) error {
	var structured *apperrors.Error
	if errors.As(err, &structured) {
		return structured
	}

	switch {
	case errors.Is(err, domain.ErrMissingPeer):
		return apperrors.ValidationError("Missing 'to'")
	case errors.Is(err, domain.ErrEmptyMessage):
		return apperrors.ValidationError("Message is empty")
	case errors.Is(err, domain.ErrEmptyComment):
		return apperrors.ValidationError("Comment is empty")
	case errors.Is(err, domain.ErrCommentTooLong):
		return apperrors.ValidationError("Comment is too long")
	case errors.Is(err, domain.ErrUserNotFound):
		return apperrors.NotFoundError("User not found")
	case errors.Is(err, domain.ErrPostNotFound):
		return apperrors.NotFoundError("Post not found")
	case errors.Is(err, domain.ErrLikeDebounced):
		return apperrors.RateLimitedError("Like toggled too quickly")
	}
	return err
}

func logError(c echo.Context, err *apperrors.Error) {
	ctx := c.Request().Context()
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	if userID, ok := currentUserID(c); ok {
		attrs = append(attrs, "user_id", userID)
	}

	switch err.Type {
	case apperrors.TypeValidation, apperrors.TypeUnauthorized:
		slog.InfoContext(ctx, "Client error", attrs...)
	case apperrors.TypeNotFound:
		slog.InfoContext(ctx, "Not found", attrs...)
	case apperrors.TypeConflict, apperrors.TypeRateLimited:
		slog.WarnContext(ctx, "Request refused", attrs...)
	case apperrors.TypeInternal, apperrors.TypeExternal, apperrors.TypeUnavailable:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "Server error", attrs...)
	default:
		slog.ErrorContext(ctx, "Unknown error type", attrs...)
	}
}

func WrapHTTPError(httpErr *echo.HTTPError) *apperrors.Error {
	message := http.StatusText(httpErr.Code)
	if msg, ok := httpErr.Message.(string); ok && msg != "" {
		message = msg
	}

	var errType apperrors.ErrorType
	switch httpErr.Code {
	case http.StatusBadRequest:
		errType = apperrors.TypeValidation
	case http.StatusUnauthorized:
		errType = apperrors.TypeUnauthorized
	case http.StatusNotFound:
		errType = apperrors.TypeNotFound
	case http.StatusConflict:
		errType = apperrors.TypeConflict
	case http.StatusTooManyRequests:
		errType = apperrors.TypeRateLimited
	case http.StatusBadGateway:
		errType = apperrors.TypeExternal
	case http.StatusServiceUnavailable:
		errType = apperrors.TypeUnavailable
	default:
		errType = apperrors.TypeInternal
		if httpErr.Code < http.StatusInternalServerError {
			errType = apperrors.TypeValidation
		}
	}

	err := &apperrors.Error{
		Type:    errType,
		Message: message,
	}
	if httpErr.Internal != nil {
		err.Cause = httpErr.Internal
	}
	return err
}

// httpErrorHandler renders errors that bypass ErrorHandlingMiddleware: echo's
// own (unknown route, wrong method, failed bind) and anything middleware
// hands to c.Error directly, such as rate limiter denials.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var structured *apperrors.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &structured):
		logError(c, structured)
	case errors.As(err, &httpErr):
		structured = WrapHTTPError(httpErr)
	default:
		structured = apperrors.InternalError(http.StatusText(http.StatusInternalServerError), err)
		logError(c, structured)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(structured.HTTPStatus())
		return
	}
	if err := c.JSON(structured.HTTPStatus(), structured.ToResponse()); err != nil {
		slog.ErrorContext(c.Request().Context(), "Failed to write error response", "error", err)
	}
}
