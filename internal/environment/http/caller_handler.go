package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/envkeys/internal/environment/http/dto"
)

// CallerHandler describes the caller a credential resolved to.
type CallerHandler struct {
	logger *slog.Logger
}

// NewCallerHandler creates a new caller handler.
func NewCallerHandler(logger *slog.Logger) *CallerHandler {
	return &CallerHandler{logger: logger}
}

// WhoAmIHandler returns the account and environment of the resolved caller.
// GET /v1/whoami (secret key) and GET /v1/public/whoami (public key).
func (h *CallerHandler) WhoAmIHandler(c *gin.Context) {
	caller, ok := callerFromContext(c, h.logger)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.MapCallerToWhoAmIResponse(caller))
}
