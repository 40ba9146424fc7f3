package http

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	envService "github.com/allisson/envkeys/internal/environment/service"
	envUseCase "github.com/allisson/envkeys/internal/environment/usecase"
	apperrors "github.com/allisson/envkeys/internal/errors"
	"github.com/allisson/envkeys/internal/httputil"
)

// PublicKeyHeader carries the public key when it is not passed as a query parameter.
const PublicKeyHeader = "X-Public-Key"

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func bearerToken(c *gin.Context) (string, bool) {
	const bearerPrefix = "bearer "

	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	return token, token != ""
}

// abortUnresolved answers every kind of absence with the same 401 so callers
// cannot tell an unknown credential from a deleted environment. Other failures,
// such as a store outage or a row that does not decrypt, keep their own status.
func abortUnresolved(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil || errors.Is(err, apperrors.ErrNotFound) {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
	} else {
		httputil.HandleErrorGin(c, err, logger)
	}
	c.Abort()
}

// AuthenticationMiddleware resolves the secret key presented as a bearer token
// and stores the caller in the request context.
//
// Usage:
//
//	router.GET("/v1/whoami", AuthenticationMiddleware(resolver, logger), handler.WhoAmIHandler)
func AuthenticationMiddleware(resolver envUseCase.ResolverUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		secretKey, ok := bearerToken(c)
		if !ok {
			logger.Debug("authentication failed: missing or malformed authorization header")
			abortUnresolved(c, nil, logger)
			return
		}

		caller, err := resolver.ResolveBySecret(c.Request.Context(), secretKey)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			abortUnresolved(c, err, logger)
			return
		}

		c.Request = c.Request.WithContext(WithCaller(c.Request.Context(), caller))

		logger.Debug("authentication successful",
			slog.Int64("account_id", caller.Account.ID),
			slog.String("environment", caller.Environment.Name))

		c.Next()
	}
}

// PublicKeyMiddleware resolves the public key given in the public_key query
// parameter or the X-Public-Key header.
func PublicKeyMiddleware(resolver envUseCase.ResolverUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		publicKey := c.Query("public_key")
		if publicKey == "" {
			publicKey = c.GetHeader(PublicKeyHeader)
		}

		caller, err := resolver.ResolveByPublicKey(c.Request.Context(), publicKey)
		if err != nil {
			logger.Debug("public key resolution failed", slog.String("error", err.Error()))
			abortUnresolved(c, err, logger)
			return
		}

		c.Request = c.Request.WithContext(WithCaller(c.Request.Context(), caller))
		c.Next()
	}
}

// AdminAuthMiddleware guards the admin API with a bearer token verified against
// tokenHash. An empty tokenHash disables the admin API: every request is forbidden.
func AdminAuthMiddleware(
	tokenService envService.AdminTokenService,
	tokenHash string,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenHash == "" {
			logger.Debug("admin request rejected: no admin token configured")
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok || !tokenService.VerifyToken(token, tokenHash) {
			logger.Debug("admin authentication failed")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// callerFromContext is used by handlers behind the authentication middlewares.
func callerFromContext(c *gin.Context, logger *slog.Logger) (*envDomain.Caller, bool) {
	caller, ok := GetCaller(c.Request.Context())
	if !ok {
		logger.Error("no resolved caller in context")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		return nil, false
	}
	return caller, true
}
