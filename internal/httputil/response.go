// Package httputil writes the JSON error bodies shared by every handler.
package httputil

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/envkeys/internal/errors"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// reply is how one error kind is answered. An empty message echoes err.Error().
type reply struct {
	status  int
	message string
}

// Credential and outage details stay in the logs.
var replies = map[apperrors.Kind]reply{
	apperrors.KindNotFound:     {http.StatusNotFound, "resource not found"},
	apperrors.KindConflict:     {http.StatusConflict, ""},
	apperrors.KindInvalidInput: {http.StatusUnprocessableEntity, ""},
	apperrors.KindUnauthorized: {http.StatusUnauthorized, "missing or unknown credential"},
	apperrors.KindForbidden:    {http.StatusForbidden, "operation not allowed"},
	apperrors.KindUnavailable:  {http.StatusServiceUnavailable, "credential store unavailable"},
	apperrors.KindInternal:     {http.StatusInternalServerError, "internal error"},
}

// HandleErrorGin answers err according to its kind. Server-side failures are
// logged at error level, client mistakes at debug.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	kind := apperrors.KindOf(err)
	r := replies[kind]
	message := r.message
	if message == "" {
		message = err.Error()
	}

	if logger != nil {
		level := slog.LevelDebug
		if r.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		ctx := context.Background()
		if c.Request != nil {
			ctx = c.Request.Context()
		}
		logger.Log(ctx, level, "request failed",
			slog.Int("status_code", r.status),
			slog.String("error_code", string(kind)),
			slog.Any("error", err),
		)
	}

	c.JSON(r.status, ErrorResponse{Error: string(kind), Message: message})
}

// HandleBadRequestGin answers a body or path parameter that could not be parsed.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusBadRequest, "bad_request", err, logger)
}

// HandleValidationErrorGin answers a request that parsed but failed validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusUnprocessableEntity, "validation_error", err, logger)
}

func writeClientError(c *gin.Context, status int, code string, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Debug("rejected request", slog.String("error_code", code), slog.Any("error", err))
	}
	c.JSON(status, ErrorResponse{Error: code, Message: err.Error()})
}
