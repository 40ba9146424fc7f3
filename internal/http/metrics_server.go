package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/envkeys/internal/metrics"
)

// MetricsServer exposes the Prometheus scrape endpoint on its own port so it can
// stay off the public network.
type MetricsServer struct {
	*listener
	router *gin.Engine
}

// NewMetricsServer serves provider's registry at GET /metrics. With a nil
// provider every path is a 404.
func NewMetricsServer(host string, port int, logger *slog.Logger, provider *metrics.Provider) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())
	if provider != nil {
		router.GET("/metrics", gin.WrapH(provider.Handler()))
	}
	return &MetricsServer{
		listener: newListener("metrics server", host, port, logger),
		router:   router,
	}
}

// Handler returns the routes served by Start.
func (s *MetricsServer) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops.
func (s *MetricsServer) Start(ctx context.Context) error {
	return s.listen(s.router)
}
