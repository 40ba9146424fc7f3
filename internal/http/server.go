// Package http provides the API server, its router and the metrics server.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/envkeys/internal/config"
	envHTTP "github.com/allisson/envkeys/internal/environment/http"
	envService "github.com/allisson/envkeys/internal/environment/service"
	envUseCase "github.com/allisson/envkeys/internal/environment/usecase"
	"github.com/allisson/envkeys/internal/metrics"
)

// Server represents the API server.
type Server struct {
	*listener
	db     *sql.DB
	router *gin.Engine
}

// NewServer creates a new API server. SetupRouter must be called before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		listener: newListener("http server", host, port, logger),
		db:       db,
	}
}

// SetupRouter builds the gin engine with every route.
//
// Routes:
//
//	GET  /health, /ready
//	GET  /v1/whoami                  secret key (bearer)
//	GET  /v1/public/whoami           public key (query or X-Public-Key)
//	/v1/admin/...                    management API (admin bearer token)
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	resolverUseCase envUseCase.ResolverUseCase,
	accountHandler *envHTTP.AccountHandler,
	environmentHandler *envHTTP.EnvironmentHandler,
	keyHandler *envHTTP.KeyHandler,
	callerHandler *envHTTP.CallerHandler,
	adminTokenService envService.AdminTokenService,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	secretAuth := []gin.HandlerFunc{envHTTP.AuthenticationMiddleware(resolverUseCase, s.logger)}
	publicAuth := []gin.HandlerFunc{envHTTP.PublicKeyMiddleware(resolverUseCase, s.logger)}
	if cfg.RateLimitEnabled {
		limiter := envHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger)
		secretAuth = append(secretAuth, limiter)
		publicAuth = append(publicAuth, limiter)
	}

	v1.GET("/whoami", append(secretAuth, callerHandler.WhoAmIHandler)...)

	public := v1.Group("/public")
	mountPublicCORS(public, publicKeyCORS(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger))
	public.GET("/whoami", append(publicAuth, callerHandler.WhoAmIHandler)...)

	admin := v1.Group("/admin")
	admin.Use(envHTTP.AdminAuthMiddleware(adminTokenService, cfg.AdminTokenHash, s.logger))
	{
		accounts := admin.Group("/accounts")
		accounts.POST("", accountHandler.CreateHandler)
		accounts.GET("/:id", accountHandler.GetHandler)
		accounts.GET("/:id/environments", environmentHandler.ListHandler)
		accounts.POST("/:id/environments", environmentHandler.CreateHandler)

		environments := admin.Group("/environments")
		environments.GET("/:id", environmentHandler.GetHandler)
		environments.PATCH("/:id", environmentHandler.UpdateHandler)
		environments.DELETE("/:id", environmentHandler.DeleteHandler)
		environments.GET("/:id/variables", environmentHandler.GetVariablesHandler)
		environments.PUT("/:id/variables", environmentHandler.SetVariablesHandler)
		environments.GET("/:id/keys/:type", keyHandler.StateHandler)
		environments.POST("/:id/keys/:type/rotate", keyHandler.RotateHandler)
		environments.POST("/:id/keys/:type/activate", keyHandler.ActivateHandler)
		environments.POST("/:id/keys/:type/revert", keyHandler.RevertHandler)
	}

	s.router = router
}

// healthHandler reports that the process is up.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.db.PingContext(ctx) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}

// Start blocks until the server stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	return s.listen(s.router)
}
