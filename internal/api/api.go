package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glefebvre/mediathek/internal/description"
	"github.com/glefebvre/mediathek/internal/logger"
	"github.com/glefebvre/mediathek/internal/metrics"
)

// ServerConfig holds the settings the API server is built from
type ServerConfig struct {
	MaxDescriptionLength int
	CORSOrigins          []string
}

// Server represents the API server
type Server struct {
	router   *gin.Engine
	pipeline *description.Pipeline
	metrics  *metrics.Normalization
	log      *logger.Logger

	mu         sync.Mutex
	httpServer *http.Server
}

// NewServer creates a new API server instance
func NewServer(cfg ServerConfig) *Server {
	m := metrics.NewNormalization()

	s := &Server{
		router:   gin.New(),
		pipeline: description.NewPipeline(cfg.MaxDescriptionLength, description.WithMetrics(m)),
		metrics:  m,
		log:      logger.APILogger(),
	}

	s.router.Use(requestIDMiddleware())
	s.router.Use(loggingMiddleware(s.log))
	s.router.Use(errorHandlerMiddleware(s.log))
	if mw := corsMiddleware(cfg.CORSOrigins); mw != nil {
		s.router.Use(mw)
	}

	s.setupRoutes()

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the counters the server records into
func (s *Server) Metrics() *metrics.Normalization {
	return s.metrics
}

// Run starts the API server on the specified port and blocks until it stops.
// A server stopped through Shutdown returns nil.
func (s *Server) Run(port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.log.WithFields(map[string]interface{}{"port": port}).Info("api server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/descriptions/normalize", s.normalizeDescription)

		v1.POST("/films", s.createFilm)
		v1.POST("/films/compare", s.compareFilms)
	}

	s.router.NoRoute(s.notFound)
}

// corsMiddleware returns nil when no origin is allowed
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}

	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}
