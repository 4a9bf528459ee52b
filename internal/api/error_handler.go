package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/neuroscan/scan-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success":false,"message":"..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// A worker-reported failure carries a worker-supplied message.
	var we *domain.WorkerError
	if errors.As(err, &we) {
		if we.Message == "" {
			return http.StatusInternalServerError, "inference failed"
		}
		return http.StatusInternalServerError, we.Message
	}

	// Known domain errors → deterministic HTTP codes. Session failures do
	// not distinguish tampered from expired to the caller.
	switch {
	case errors.Is(err, domain.ErrAuthenticationFailed),
		errors.Is(err, domain.ErrIdentityInvalid):
		return http.StatusBadRequest, "invalid identity credential"
	case errors.Is(err, domain.ErrSessionInvalid),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return http.StatusBadRequest, "only JPEG, PNG and GIF images are allowed"
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "file exceeds the upload size limit"
	case errors.Is(err, domain.ErrWorkerExecution):
		return http.StatusInternalServerError, "inference failed"
	case errors.Is(err, domain.ErrMalformedOutput):
		return http.StatusInternalServerError, "invalid result"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
