package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/auth"
	"github.com/kpata360-rgb/workisready-backend1/internal/category"
	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/config"
	"github.com/kpata360-rgb/workisready-backend1/internal/featured"
	"github.com/kpata360-rgb/workisready-backend1/internal/filestorage"
	"github.com/kpata360-rgb/workisready-backend1/internal/middleware"
	"github.com/kpata360-rgb/workisready-backend1/internal/notification"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/metrics"
	"github.com/kpata360-rgb/workisready-backend1/internal/provider"
	"github.com/kpata360-rgb/workisready-backend1/internal/task"
	"github.com/kpata360-rgb/workisready-backend1/internal/updaterequest"
	"github.com/kpata360-rgb/workisready-backend1/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups the module handlers mounted under /api/v1.
type Handlers struct {
	Auth          *auth.Handler
	User          *user.Handler
	Category      *category.Handler
	Task          *task.Handler
	Provider      *provider.Handler
	UpdateRequest *updaterequest.Handler
	Featured      *featured.Handler
	Notification  *notification.Handler
}

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	categories category.Service
	cfg        *config.Config
	logger     *zap.Logger
}

// NewServer creates a new instance of our application server.
func NewServer(cfg *config.Config, logger *zap.Logger, tokens middleware.TokenValidator, categories category.Service, storage *filestorage.Service, h *Handlers) *Server {
	gin.SetMode(cfg.GinMode)
	router := NewRouter(cfg, logger, tokens, storage.BasePath(), h)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.ServerTimeout,
			WriteTimeout:      cfg.ServerTimeout,
			IdleTimeout:       120 * time.Second,
		},
		router:     router,
		categories: categories,
		cfg:        cfg,
		logger:     logger,
	}
}

// NewRouter builds the gin engine with global middleware and every route.
func NewRouter(cfg *config.Config, logger *zap.Logger, tokens middleware.TokenValidator, uploadDir string, h *Handlers) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// --- Global Middleware ---
	router.Use(metrics.Handler())
	router.Use(middleware.ZapLogger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.NoRoute(middleware.NoRoute)
	router.NoMethod(middleware.NoMethod)

	authMW := middleware.AuthMiddleware(tokens, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.Static(filestorage.PublicPrefix, uploadDir)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "WorkIsReady API is healthy!"})
	})
	router.GET("/metrics", metrics.Exposer())

	apiLimiter := middleware.NewIPRateLimiter("api", cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	authLimiter := middleware.NewIPRateLimiter("auth", cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst, logger)

	v1 := router.Group("/api/v1", apiLimiter.Handler())
	h.Auth.RegisterRoutes(v1.Group("", authLimiter.Handler()), authMW)
	h.User.RegisterRoutes(v1, authMW, adminRoleMW)
	h.Category.RegisterRoutes(v1)
	h.Task.RegisterRoutes(v1, authMW)
	h.Provider.RegisterRoutes(v1, authMW, adminRoleMW)
	h.UpdateRequest.RegisterRoutes(v1, authMW, adminRoleMW)
	h.Featured.RegisterRoutes(v1, authMW, adminRoleMW)
	h.Notification.RegisterRoutes(v1, authMW)

	return router
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// SeedTaxonomy inserts taxonomy entries missing from the category tables.
// It is idempotent and runs before the listener opens.
func (s *Server) SeedTaxonomy(ctx context.Context) error {
	if err := s.categories.Seed(ctx); err != nil {
		return fmt.Errorf("seed taxonomy: %w", err)
	}
	return nil
}

func (s *Server) Start() error {
	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	return s.httpServer.Shutdown(ctx)
}
