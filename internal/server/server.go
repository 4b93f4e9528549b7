package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"necx-chat/config"
	"necx-chat/internal/handler"
	"necx-chat/internal/middleware"
	"necx-chat/internal/ratelimit"
	"necx-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	System  *handler.SystemHandler
	User    *handler.UserHandler
	Message *handler.MessageHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	if l == nil {
		l = logger.GetGlobalLogger()
	}

	engine := gin.New()
	// Forwarding headers are only honoured from listed proxies; with none listed
	// the client IP is the socket peer.
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		l.Warn("invalid trusted proxies, trusting none", zap.Strings("trusted_proxies", cfg.TrustedProxies), zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}
	engine.Use(middleware.Recovery(l))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Accept", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "X-Response-Time", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           86400,
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           corsHandler.Handler(engine),
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Handler exposes the full handler chain, CORS included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) SetupRoutes(handlers *Handlers, limiter ratelimit.Limiter) {
	production := s.config.IsProduction()

	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.ResponseTime(s.config.SlowRequestThreshold, s.logger))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.SecurityHeaders(production))
	s.engine.Use(middleware.BodyLimit(s.config.MaxBodyBytes))
	s.engine.Use(middleware.ErrorHandler(s.logger, production))
	s.engine.NoRoute(middleware.NotFound())

	s.engine.GET("/ping", handlers.System.Ping)

	api := s.engine.Group("/api")
	if limiter != nil {
		api.Use(middleware.RateLimitMiddleware(limiter, s.logger))
	}
	{
		api.GET("", handlers.System.Index)
		api.GET("/health", handlers.System.Health)
	}

	users := api.Group("/users")
	{
		users.GET("", handlers.User.List)
		users.POST("", handlers.User.Create)
		users.DELETE("/:id", handlers.User.Delete)
	}

	messages := api.Group("/messages")
	{
		messages.GET("", handlers.Message.List)
		messages.GET("/search", handlers.Message.Search)
		messages.GET("/between", handlers.Message.Between)
		messages.POST("", handlers.Message.Create)
		messages.PUT("/:id", handlers.Message.Update)
		messages.DELETE("/:id", handlers.Message.Delete)
	}
}

func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("Error in starting the server: %s", err)
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	s.logger.Infof("Server is running on :%s (health: /api/health, docs: /api)", s.config.AppPort)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	s.logger.Infof("Quitting signal received.. Shutting down within %s", s.config.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		return err
	}

	s.logger.Infof("Server stopped gracefully")

	return nil
}
