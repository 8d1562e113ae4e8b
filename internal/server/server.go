// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"log"
	"slices"
	"strconv"
	"strings"
	"time"

	"commune/internal/bootstrap"
	"commune/internal/config"
	"commune/internal/featureflags"
	"commune/internal/middleware"
	"commune/internal/models"
	"commune/internal/repository"
	"commune/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	flags          *featureflags.Manager
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	roleRepo       repository.RoleRepository
	socialRepo     repository.SocialRepository
	postRepo       repository.PostRepository
	messageRepo    repository.MessageRepository
	authService    *service.AuthService
	socialService  *service.SocialService
	postService    *service.PostService
	messageService *service.MessageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Used by tests and by bootstrap layers that establish DB/Redis themselves.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	socialRepo := repository.NewSocialRepository(db)
	postRepo := repository.NewPostRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	prom := middleware.InitMetrics("commune-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		flags:          featureflags.NewManager(cfg.FeatureFlags),
		promMiddleware: prom,
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		socialRepo:     socialRepo,
		postRepo:       postRepo,
		messageRepo:    messageRepo,
	}
	server.authService = service.NewAuthService(userRepo, roleRepo, cfg.JWTSecret)
	server.socialService = service.NewSocialService(socialRepo, userRepo)
	server.postService = service.NewPostService(postRepo, userRepo)
	server.messageService = service.NewMessageService(messageRepo, socialRepo, userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and identity into UserContext
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit, so browser clients
	// still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
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
	dashboard := monitor.New(monitor.Config{
		Title: "Commune Backend Metrics Dashboard",
	})
	api.Get("/metrics/dashboard", func(c *fiber.Ctx) error {
		if !s.flags.Enabled("metrics_dashboard", 0) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return dashboard(c)
	})

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/signin", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "signin"), s.Signin)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/:username/posts", s.GetUserPosts)
	users.Get("/:username/feed", s.ActivityFeed)
	users.Get("/:username/friends", s.GetFriends)

	// Post routes (acting user from token)
	posts := protected.Group("/posts")
	posts.Post("/", s.CreatePost)
	posts.Delete("/:id", s.DeletePost)

	// Social graph routes
	invitations := protected.Group("/invitations")
	invitations.Get("/", s.GetIncomingInvitations)
	invitations.Post("/:recipient", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "invite"), s.Invite)
	invitations.Post("/:id/accept", s.AcceptInvite)

	friends := protected.Group("/friends")
	friends.Delete("/:username", s.RemoveFriend)

	// Messaging routes
	messages := protected.Group("/messages")
	messages.Get("/sent", s.GetSentMessages)
	messages.Get("/received", s.GetReceivedMessages)
	messages.Post("/:recipient", middleware.RateLimit(
		s.redis, 15, time.Minute, "send_message"), s.SendMessage)

	// Feature flag snapshot for the authenticated user
	protected.Get("/flags", s.FlagSnapshot)

	// Admin routes
	admin := protected.Group("/admin", s.RoleRequired(models.RoleAdmin))
	admin.Get("/users", s.ListUsers)
}

// FlagSnapshot returns the evaluated feature flags for the caller. Rollout
// percentages are resolved against the caller's user ID.
func (s *Server) FlagSnapshot(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	return c.Status(fiber.StatusOK).JSON(s.flags.Snapshot(userID))
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
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
		// the API works without Redis; rate limiting fails open
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// RoleRequired returns middleware that rejects users lacking the role claim
// with 403. Must be placed after AuthRequired.
func (s *Server) RoleRequired(role models.RoleName) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("roles").([]string)
		if !slices.Contains(roles, string(role)) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Insufficient role"))
		}
		return c.Next()
	}
}

// AuthRequired returns the authentication middleware. It validates the bearer
// token and stores the verified identity (userID, username, roles) in locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != service.TokenIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != service.TokenAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		username, ok := claims["username"].(string)
		if !ok || username == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid username claim"))
		}

		var roles []string
		if rawRoles, exists := claims["roles"].([]any); exists {
			for _, r := range rawRoles {
				if name, isString := r.(string); isString {
					roles = append(roles, name)
				}
			}
		}

		// Store verified identity in locals and sync to UserContext for
		// logging and downstream services.
		c.Locals("userID", uint(userID))
		c.Locals("username", username)
		c.Locals("roles", roles)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		ctx = context.WithValue(ctx, middleware.UsernameKey, username)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// currentUsername returns the verified username stored by AuthRequired.
func currentUsername(c *fiber.Ctx) string {
	name, _ := c.Locals("username").(string)
	return name
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Commune API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("Server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
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

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
