// Package httpapi exposes the service over HTTP: signup, login and the
// ownership-scoped todo endpoints behind the bearer-token gate.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"todoapp/internal/logging"
	"todoapp/internal/server/config"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address   string
	staticDir string
	router    *gin.Engine
	logger    logging.Logger
}

func NewServer(cfg *config.Config, l logging.Logger, users UserGate, todos TodoManager) *Server {
	if cfg.Env == logging.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		address:   cfg.EndpointAddr,
		staticDir: cfg.StaticDir,
		logger:    l.With("module", "httpapi"),
	}

	h := newHandler(users, todos, s.logger)

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), s.requestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	registerRoutes(router, h)
	router.NoRoute(s.serveStatic)

	s.router = router
	return s
}

func registerRoutes(router *gin.Engine, h *handler) {
	router.GET("/health", h.health)
	router.POST("/signup", h.signup)
	router.POST("/login", h.login)

	protected := router.Group("")
	protected.Use(h.requireAuth())
	{
		protected.POST("/todos", h.createTodo)
		protected.GET("/todos", h.listTodos)
		protected.PUT("/todos/:id", h.updateTodo)
		protected.DELETE("/todos/:id", h.deleteTodo)
		protected.DELETE("/account", h.deleteAccount)
	}
}

// serveStatic serves the frontend build, falling back to index.html so
// client-side routes resolve. Without a configured static dir it is a
// plain 404.
func (s *Server) serveStatic(c *gin.Context) {
	if s.staticDir == "" || c.Request.Method != http.MethodGet {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	p := filepath.Join(s.staticDir, filepath.Clean("/"+c.Request.URL.Path))
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		c.File(p)
		return
	}
	c.File(filepath.Join(s.staticDir, "index.html"))
}

// Handler returns the assembled routing tree. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
