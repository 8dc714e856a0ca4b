// Package api exposes the reconciliation service over HTTP.
package api

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/CheeKangSew/Shell-Petronas-recon/internal/api/dto"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/application/service"
	"github.com/CheeKangSew/Shell-Petronas-recon/internal/csvio"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	recon      *service.ReconService
}

// NewServer creates a new API server.
func NewServer(cfg Config, recon *service.ReconService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		config: cfg,
		router: router,
		logger: logger,
		recon:  recon,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	s.router.GET("/health", s.health)

	api := s.router.Group("/api")
	{
		api.POST("/reconcile", s.reconcile)
		api.POST("/reconcile/csv", s.reconcileCSV)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewHealthResponse())
}

// reconcile runs one reconciliation and returns the full result as JSON.
func (s *Server) reconcile(c *gin.Context) {
	result, _, err := s.run(c)
	if err != nil {
		return // Response already written
	}
	c.JSON(http.StatusOK, dto.FromResult(result))
}

// reconcileCSV runs one reconciliation and returns the matched pairs as
// a CSV attachment, mirroring the original download workflow.
func (s *Server) reconcileCSV(c *gin.Context) {
	result, partner, err := s.run(c)
	if err != nil {
		return
	}

	var buf bytes.Buffer
	if err := csvio.WriteMatches(&buf, result.Matches); err != nil {
		s.logger.Error("writing matched csv", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}

	filename := fmt.Sprintf("matched_transactions_%s.csv", partner)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// run parses a reconcile request, executes it and writes any error
// response itself. Callers only render the success shape.
func (s *Server) run(c *gin.Context) (*service.ReconResult, string, error) {
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return nil, "", err
	}

	kind, err := req.PartnerKind()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return nil, "", err
	}
	buffer, err := req.BufferDuration()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
		return nil, "", err
	}

	primary, err := dto.ToModels(req.PrimaryRecords)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(fmt.Sprintf("primary_records: %v", err)))
		return nil, "", err
	}
	partner, err := dto.ToModels(req.PartnerRecords)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationError(fmt.Sprintf("partner_records: %v", err)))
		return nil, "", err
	}

	result, err := s.recon.Reconcile(service.ReconRequest{
		Partner:    kind,
		TimeBuffer: &buffer,
	}, primary, partner)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ConfigurationError(err.Error()))
		return nil, "", err
	}

	return result, string(kind), nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
