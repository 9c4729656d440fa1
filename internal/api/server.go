package api

import (
	"context"
	"net/http"

	"github.com/designCentricShubhamThaker/pragati-dummy-server/config"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/api/handlers"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/api/middleware"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/metrics"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/services"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Server represents the HTTP server
type Server struct {
	config          config.Config
	router          *gin.Engine
	httpServer      *http.Server
	progressService *services.ProgressService
	metrics         *metrics.Metrics
	tracer          tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, progressService *services.ProgressService, metricsCollector *metrics.Metrics, tracer tracing.Tracer) *Server {
	server := &Server{
		config:          cfg,
		progressService: progressService,
		metrics:         metricsCollector,
		tracer:          tracer,
	}

	server.router = server.setupRouter()
	server.httpServer = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	if s.config.Server.CorsEnabled {
		corsConfig := cors.DefaultConfig()
		if len(s.config.Server.CorsOrigins) == 1 && s.config.Server.CorsOrigins[0] == "*" {
			corsConfig.AllowAllOrigins = true
		} else {
			corsConfig.AllowOrigins = s.config.Server.CorsOrigins
		}
		corsConfig.AddAllowMethods("GET", "POST", "OPTIONS")
		corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
		router.Use(cors.New(corsConfig))
	}

	ordersHandler := handlers.NewOrdersHandler(s.progressService, s.tracer)
	ordersHandler.RegisterRoutes(router)

	metricsHandler := handlers.NewMetricsHandler(s.metrics, s.tracer)
	if s.config.MetricsEnabled {
		metricsHandler.RegisterRoutes(router)
	} else {
		router.GET("/health", metricsHandler.HandleGetHealthCheck)
	}

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.Server.Address).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
