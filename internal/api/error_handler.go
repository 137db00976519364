package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/infrastructure/queue"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, domain.ErrSessionForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrWrongAnswer):
		return http.StatusConflict, "wrong answer"
	case errors.Is(err, domain.ErrBlankFilled):
		return http.StatusConflict, "blank already filled"
	case errors.Is(err, domain.ErrRejected):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidAvatar),
		errors.Is(err, domain.ErrInvalidDie),
		errors.Is(err, domain.ErrUnknownOption),
		errors.Is(err, domain.ErrOutOfRange),
		errors.Is(err, domain.ErrUnknownBlank),
		errors.Is(err, domain.ErrUnknownEvent):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrExportFailed):
		log.Warn().Err(err).Str("path", c.Path()).Msg("certificate export failed")
		return http.StatusBadGateway, "certificate export failed"
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("session store unavailable")
		return http.StatusServiceUnavailable, "session store unavailable"
	case errors.Is(err, queue.ErrStopped):
		return http.StatusServiceUnavailable, "service is shutting down"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
