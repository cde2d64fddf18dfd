// Package api exposes the scoring, treatment, training and memory-vault
// services over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/auth"
	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/middleware"
	"github.com/cognisphere-server/internal/service"
)

// LocalPatientID is the patient every request acts as when auth is disabled.
const LocalPatientID = "local"

const shutdownTimeout = 30 * time.Second

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Services bundles the handlers' dependencies.
type Services struct {
	Assessments *service.AssessmentService
	Treatments  *service.TreatmentService
	Training    *service.TrainingService
	Memories    *service.MemoryService

	// Patients is nil when the database is disabled.
	Patients domain.PatientRepository
}

// Server represents the HTTP server
type Server struct {
	config   *domain.Config
	services Services
	db       HealthChecker
	logger   *logrus.Logger
	router   *gin.Engine
	server   *http.Server
}

// NewServer creates a new HTTP server instance. db may be nil when the
// database is disabled.
func NewServer(cfg *domain.Config, services Services, db HealthChecker, logger *logrus.Logger) *Server {
	// Set Gin mode based on log level
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(corsMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))

	s := &Server{
		config:   cfg,
		services: services,
		db:       db,
		logger:   logger,
		router:   router,
	}
	s.setupRoutes()
	return s
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.CorrelationIDHeader},
		ExposeHeaders: []string{middleware.CorrelationIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	})
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/readyz", s.handleReady)

	v1 := s.router.Group("/api/v1")

	// Stateless and catalog routes
	public := v1.Group("")
	{
		public.POST("/risk/score", s.handleScore)
		public.GET("/treatments", s.handleListTreatments)
		public.GET("/treatments/:id", s.handleGetTreatment)
		public.GET("/treatments/:id/simulation", s.handleSimulate)
		public.POST("/treatments/compare", s.handleCompare)
		public.POST("/treatments/compare/report.xlsx", s.handleCompareReport)
		public.GET("/training/games", s.handleListGames)
	}

	private := v1.Group("")
	private.Use(s.authMiddleware())
	{
		private.GET("/profile", s.handleGetProfile)
		private.PUT("/profile", s.handleUpdateProfile)

		private.POST("/assessments", s.handleCreateAssessment)
		private.GET("/assessments", s.handleListAssessments)
		private.GET("/assessments/:id", s.handleGetAssessment)
		private.GET("/assessments/:id/report.xlsx", s.handleAssessmentReport)

		private.POST("/simulations", s.handleSaveSimulation)
		private.GET("/simulations", s.handleListSimulations)

		private.POST("/training/sessions", s.handleRecordSession)
		private.GET("/training/stats", s.handleTrainingStats)
		private.POST("/training/wellness", s.handleRecordCheckin)

		private.GET("/memories", s.handleListMemories)
		private.POST("/memories", s.handleCreateMemory)
		private.GET("/memories/insights", s.handleMemoryInsights)
		private.POST("/memories/chat", s.handleMemoryChat)
		private.GET("/memories/:id", s.handleGetMemory)
		private.PUT("/memories/:id", s.handleUpdateMemory)
		private.DELETE("/memories/:id", s.handleDeleteMemory)
	}
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	if !s.config.Auth.Enabled {
		return auth.StaticPatient(LocalPatientID)
	}
	return auth.Middleware(auth.NewVerifier(s.config.Auth))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   s.config.MCP.ServerVersion,
	})
}

func (s *Server) handleReady(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "database": "disabled"})
		return
	}
	if err := s.db.Health(c.Request.Context()); err != nil {
		s.logger.WithError(err).Warn("Readiness check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "database": "ok"})
}
