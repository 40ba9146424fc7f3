package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	"github.com/allisson/envkeys/internal/environment/http/dto"
	envUseCase "github.com/allisson/envkeys/internal/environment/usecase"
	"github.com/allisson/envkeys/internal/httputil"
)

// KeyHandler exposes the key rotation controller.
type KeyHandler struct {
	rotationUseCase envUseCase.RotationUseCase
	logger          *slog.Logger
}

// NewKeyHandler creates a new key handler.
func NewKeyHandler(rotationUseCase envUseCase.RotationUseCase, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{
		rotationUseCase: rotationUseCase,
		logger:          logger,
	}
}

// parseKeyParams reads the :id and :type path parameters.
func (h *KeyHandler) parseKeyParams(c *gin.Context) (int64, envDomain.CredentialType, bool) {
	envID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return 0, "", false
	}

	t, err := parseCredentialTypeParam(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return 0, "", false
	}
	return envID, t, true
}

// StateHandler reports the rotation state of a credential.
// GET /v1/admin/environments/:id/keys/:type - Returns 200 OK.
func (h *KeyHandler) StateHandler(c *gin.Context) {
	envID, t, ok := h.parseKeyParams(c)
	if !ok {
		return
	}

	state, err := h.rotationUseCase.State(c.Request.Context(), envID, t)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.KeyResponse{Type: string(t), State: string(state)})
}

// RotateHandler begins a rotation and returns the pending value.
// POST /v1/admin/environments/:id/keys/:type/rotate - Returns 200 OK.
func (h *KeyHandler) RotateHandler(c *gin.Context) {
	envID, t, ok := h.parseKeyParams(c)
	if !ok {
		return
	}

	pending, err := h.rotationUseCase.BeginRotation(c.Request.Context(), envID, t)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.KeyResponse{
		Type:  string(t),
		Value: pending,
		State: string(envDomain.RotationPending),
	})
}

// ActivateHandler promotes the pending value.
// POST /v1/admin/environments/:id/keys/:type/activate - Returns 200 OK, or 409
// Conflict when no rotation is pending.
func (h *KeyHandler) ActivateHandler(c *gin.Context) {
	envID, t, ok := h.parseKeyParams(c)
	if !ok {
		return
	}

	if err := h.rotationUseCase.Activate(c.Request.Context(), envID, t); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.KeyResponse{Type: string(t), State: string(envDomain.RotationStable)})
}

// RevertHandler discards the pending value and returns the active one.
// POST /v1/admin/environments/:id/keys/:type/revert - Returns 200 OK.
func (h *KeyHandler) RevertHandler(c *gin.Context) {
	envID, t, ok := h.parseKeyParams(c)
	if !ok {
		return
	}

	active, err := h.rotationUseCase.Revert(c.Request.Context(), envID, t)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.KeyResponse{
		Type:  string(t),
		Value: active,
		State: string(envDomain.RotationStable),
	})
}
