// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "tourdiary/docs" // swagger docs
	"tourdiary/internal/cache"
	"tourdiary/internal/chat"
	"tourdiary/internal/config"
	"tourdiary/internal/database"
	"tourdiary/internal/middleware"
	"tourdiary/internal/models"
	"tourdiary/internal/repository"
	"tourdiary/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo    repository.UserRepository
	releaseRepo repository.ReleaseRepository

	userService    *service.UserService
	releaseService *service.ReleaseService
	searchService  *service.SearchService
	mediaService   *service.MediaService
	relay          *chat.Relay
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	releaseRepo := repository.NewReleaseRepository(db)

	prom := middleware.InitMetrics("tourdiary-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		releaseRepo:    releaseRepo,
	}
	server.userService = service.NewUserService(userRepo, releaseRepo)
	server.releaseService = service.NewReleaseService(releaseRepo, userRepo)
	server.searchService = service.NewSearchService(userRepo, releaseRepo)
	server.mediaService = service.NewMediaService(cfg)
	server.relay = chat.NewRelay(cfg)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.Response{
				Success: false,
				Message: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Static media
	app.Static(s.config.UploadBaseURL, s.mediaService.UploadDir())

	// Auth routes
	api.Post("/checkLogin", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.CheckLogin)
	api.Post("/signUp", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.SignUp)

	// User routes. Specific /:userID/:resource routes go before /:userID.
	user := api.Group("/user")
	user.Get("/:userID/releases", s.GetUserReleases)
	user.Get("/:userID/liked", s.GetLiked)
	user.Post("/:userID/liked", s.AddLiked)
	user.Delete("/:userID/liked/:releaseID", s.RemoveLiked)
	user.Post("/:userID/follow", s.FollowUser)
	user.Delete("/:userID/follow/:followUserID", s.UnfollowUser)
	user.Get("/:userID/following", s.GetFollowing)
	user.Get("/:userID", s.GetUser)
	user.Put("/:userID", s.UpdateUser)

	// Release collection routes
	api.Get("/releases", s.GetReleases)
	api.Get("/releases/deleted", s.GetDeletedReleases)
	api.Get("/releases/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchReleases)
	api.Post("/releases/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchReleases)

	// Release item routes
	api.Post("/release", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_release"), s.CreateRelease)
	api.Put("/release/:releaseID/state", middleware.AuthRequired, s.AdminRequired(), s.SetReleaseState)
	api.Put("/release/:releaseID/delete-status", s.SetReleaseDeleteStatus)
	api.Put("/release/:releaseID", s.UpdateRelease)
	api.Delete("/release/:releaseID", s.DeleteRelease)
	api.Get("/release/:releaseID", s.GetRelease)

	// Media upload
	api.Post("/upload", middleware.RateLimit(
		s.redis, 20, time.Minute, "upload"), s.Upload)

	// WebSocket chat relay
	app.Use("/ws", s.UpgradeRequired)
	app.Get("/ws", s.ChatSocketHandler())
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API stays usable without Redis; caching and rate limits degrade.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "TourDiary",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userID").(string)
		if userID == "" {
			return models.RespondWithError(c,
				models.NewUnauthenticatedError("Authorization required"))
		}

		admin, err := s.isAdminByUserID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, models.NewInternalError(err))
		}
		if !admin {
			return models.RespondWithError(c,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// Start starts the server.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "TourDiary API",
		BodyLimit: 64 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
