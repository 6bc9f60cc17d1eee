package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/ridwanfathin/purchase-manager-service/docs"
	"github.com/ridwanfathin/purchase-manager-service/internal/config"
	"github.com/ridwanfathin/purchase-manager-service/internal/handler"
	"github.com/ridwanfathin/purchase-manager-service/internal/middleware"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server for the purchase API
type Server struct {
	router          *gin.Engine
	httpServer      *http.Server
	purchaseHandler *handler.PurchaseHandler
	config          *config.Config
	logger          *logrus.Logger
}

// NewServer creates and configures a new server instance
func NewServer(cfg *config.Config, purchaseHandler *handler.PurchaseHandler, logger *logrus.Logger) *Server {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestResponseLogger(logger))

	server := &Server{
		router:          router,
		purchaseHandler: purchaseHandler,
		config:          cfg,
		logger:          logger,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	server.setupRoutes()

	return server
}

// corsConfig allows every origin unless an allowlist is configured
func corsConfig(allowedOrigins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = allowedOrigins
	}
	c.AddAllowMethods("GET", "POST", "DELETE", "OPTIONS")
	c.AddAllowHeaders("Origin", "Content-Type", middleware.RequestIDHeader)
	c.AddExposeHeaders("Content-Length", middleware.RequestIDHeader)
	return c
}

// GetRouter returns the gin router instance
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.purchaseHandler.Health)

	s.router.POST("/upload/", s.purchaseHandler.UploadPurchase)
	s.router.GET("/search", s.purchaseHandler.SearchPurchases)
	s.router.GET("/purchase/:id", s.purchaseHandler.GetPurchase)
	s.router.DELETE("/purchase/:id", s.purchaseHandler.DeletePurchase)

	// Swagger UI at /api-docs/index.html
	swaggerHandler := ginSwagger.WrapHandler(swaggerFiles.Handler)
	s.router.GET("/api-docs/*any", swaggerHandler)

	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})
}

// Start begins listening for requests and handles graceful shutdown
func (s *Server) Start() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Server listening on port %d", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}
	s.logger.Info("Shutting down server...")

	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server exited gracefully")
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
