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

// AccountHandler handles HTTP requests for account provisioning.
type AccountHandler struct {
	accountUseCase envUseCase.AccountUseCase
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accountUseCase envUseCase.AccountUseCase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUseCase: accountUseCase,
		logger:         logger,
	}
}

// CreateHandler creates an account with its default environments.
// POST /v1/admin/accounts - Returns 201 Created. The secret keys of the new
// environments are only ever returned here.
func (h *AccountHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateAccountRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	account, envs, err := h.accountUseCase.Create(c.Request.Context(), req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCreatedAccountToResponse(account, envs))
}

// GetHandler retrieves an account.
// GET /v1/admin/accounts/:id - Returns 200 OK.
func (h *AccountHandler) GetHandler(c *gin.Context) {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	account, err := h.accountUseCase.Get(c.Request.Context(), accountID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccountToResponse(account))
}
