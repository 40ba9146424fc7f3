package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// publicPreflightMaxAge is how long browsers may cache a preflight answer.
const publicPreflightMaxAge = 10 * time.Minute

// splitOrigins turns a CORS_ALLOW_ORIGINS value into a list, dropping blanks.
func splitOrigins(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// publicKeyCORS builds the CORS handler mounted on the /v1/public group. It is
// nil when CORS is off or no origin survives parsing.
//
// Public keys are sent by front-end code, so only GET with the X-Public-Key
// header is allowed and cookies are never honoured.
func publicKeyCORS(enabled bool, rawOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := splitOrigins(rawOrigins)
	if len(origins) == 0 {
		logger.Warn("CORS_ENABLED is set without CORS_ALLOW_ORIGINS, public routes stay same-origin")
		return nil
	}

	logger.Info("CORS enabled for public key routes", slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet},
		AllowHeaders:     []string{"X-Public-Key"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           publicPreflightMaxAge,
	})
}

// mountPublicCORS attaches handler to group and answers preflights for every
// path under it. Group middleware only runs for matched routes, so OPTIONS
// needs a route of its own.
func mountPublicCORS(group *gin.RouterGroup, handler gin.HandlerFunc) {
	if handler == nil {
		return
	}
	group.Use(handler)
	group.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}
