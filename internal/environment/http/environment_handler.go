package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/envkeys/internal/environment/http/dto"
	envUseCase "github.com/allisson/envkeys/internal/environment/usecase"
	"github.com/allisson/envkeys/internal/httputil"
	customValidation "github.com/allisson/envkeys/internal/validation"
)

// EnvironmentHandler handles HTTP requests for environments and their variables.
type EnvironmentHandler struct {
	environmentUseCase envUseCase.EnvironmentUseCase
	logger             *slog.Logger
}

// NewEnvironmentHandler creates a new environment handler.
func NewEnvironmentHandler(environmentUseCase envUseCase.EnvironmentUseCase, logger *slog.Logger) *EnvironmentHandler {
	return &EnvironmentHandler{
		environmentUseCase: environmentUseCase,
		logger:             logger,
	}
}

// CreateHandler creates an environment under an account.
// POST /v1/admin/accounts/:id/environments - Returns 201 Created with the secret key.
func (h *EnvironmentHandler) CreateHandler(c *gin.Context) {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.CreateEnvironmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	env, err := h.environmentUseCase.Create(c.Request.Context(), accountID, req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCreatedEnvironmentToResponse(env))
}

// ListHandler lists the environments of an account.
// GET /v1/admin/accounts/:id/environments - Returns 200 OK.
func (h *EnvironmentHandler) ListHandler(c *gin.Context) {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	envs, err := h.environmentUseCase.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEnvironmentsToListResponse(envs))
}

// GetHandler retrieves an environment.
// GET /v1/admin/environments/:id - Returns 200 OK.
func (h *EnvironmentHandler) GetHandler(c *gin.Context) {
	envID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	env, err := h.environmentUseCase.Get(c.Request.Context(), envID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEnvironmentToResponse(env))
}

// UpdateHandler changes the non-credential fields of an environment.
// PATCH /v1/admin/environments/:id - Returns 200 OK.
func (h *EnvironmentHandler) UpdateHandler(c *gin.Context) {
	envID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.UpdateEnvironmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	env, err := h.environmentUseCase.UpdateMetadata(c.Request.Context(), envID, req.ToMetadataUpdate())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEnvironmentToResponse(env))
}

// DeleteHandler soft-deletes an environment.
// DELETE /v1/admin/environments/:id - Returns 204 No Content.
func (h *EnvironmentHandler) DeleteHandler(c *gin.Context) {
	envID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.environmentUseCase.Delete(c.Request.Context(), envID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// GetVariablesHandler returns the decrypted variables of an environment.
// GET /v1/admin/environments/:id/variables - Returns 200 OK.
func (h *EnvironmentHandler) GetVariablesHandler(c *gin.Context) {
	envID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	variables, err := h.environmentUseCase.GetVariables(c.Request.Context(), envID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVariablesToListResponse(variables))
}

// SetVariablesHandler replaces every variable of an environment.
// PUT /v1/admin/environments/:id/variables - Returns 200 OK with the stored set.
func (h *EnvironmentHandler) SetVariablesHandler(c *gin.Context) {
	envID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.SetVariablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	variables, err := h.environmentUseCase.SetVariables(c.Request.Context(), envID, req.ToVariableInputs())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVariablesToListResponse(variables))
}
