package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/effective-security/edugentic/config"
	"github.com/effective-security/edugentic/orchestrator"
	"github.com/effective-security/xlog"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/edugentic", "httpserver")

// Server exposes the orchestrator over REST. Transport concerns only;
// all orchestration outcomes are already well-formed envelopes.
type Server struct {
	cfg    *config.Config
	orch   *orchestrator.Orchestrator
	engine *gin.Engine
	srv    *http.Server
}

func New(cfg *config.Config, orch *orchestrator.Orchestrator) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	}))

	s := &Server{
		cfg:    cfg,
		orch:   orch,
		engine: engine,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleHealth)
	api := s.engine.Group("/api")
	api.POST("/orchestrate", s.handleOrchestrate)
	api.GET("/tools", s.handleListTools)
	api.POST("/tools/:tool", s.handleDirectCall)
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := s.cfg.Server.Addr()
	logger.KV(xlog.INFO,
		"status", "listening",
		"addr", addr,
	)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.srv.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
