// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"ovra/internal/cache"
	"ovra/internal/config"
	"ovra/internal/database"
	"ovra/internal/filestore"
	"ovra/internal/middleware"
	"ovra/internal/models"
	"ovra/internal/notifications"
	"ovra/internal/observability"
	"ovra/internal/repository"
	"ovra/internal/sentiment"
	"ovra/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB // nil when the file storage backend is active
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	repos   *repository.Repositories
	fanout  *notifications.Fanout
	checker *sentiment.Analyzer

	postService         *service.PostService
	userService         *service.UserService
	commentService      *service.CommentService
	followService       *service.FollowService
	friendService       *service.FriendService
	messageService      *service.MessageService
	notificationService *service.NotificationService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	var db *gorm.DB
	var repos *repository.Repositories

	if cfg.StorageBackend == "file" {
		fileRepos, err := filestore.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("filestore initialization failed: %w", err)
		}
		repos = fileRepos
	} else {
		conn, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		db = conn
		repos = repository.New(db)
	}

	cache.InitRedis(cfg.RedisURL)

	return newServer(cfg, db, cache.GetClient(), repos), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	return newServer(cfg, db, redisClient, repository.New(db)), nil
}

// NewServerWithRepos creates a Server over a prebuilt repository bundle.
func NewServerWithRepos(cfg *config.Config, redisClient *redis.Client, repos *repository.Repositories) *Server {
	return newServer(cfg, nil, redisClient, repos)
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, repos *repository.Repositories) *Server {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("ovra-api"),
		repos:          repos,
		fanout:         notifications.NewFanout(repos.Follows, repos.Notifications),
		checker:        sentiment.New(cfg.SentimentAPIURL, cfg.SentimentAPIKey),
	}

	server.userService = service.NewUserService(repos.Users, repos.Posts, repos.Follows, repos.Friends)
	server.postService = service.NewPostService(repos.Posts, repos.Engagements, repos.Follows, server.userService.IsAdmin).
		WithNotifier(server.fanout.Enqueue).
		WithSentiment(server.analyzeSentimentAsync)
	server.commentService = service.NewCommentService(repos.Comments, repos.Posts, server.userService.IsAdmin)
	server.followService = service.NewFollowService(repos.Follows, repos.Users)
	server.friendService = service.NewFriendService(repos.Friends, repos.Users)
	server.messageService = service.NewMessageService(repos.Messages, repos.Users)
	server.notificationService = service.NewNotificationService(repos.Notifications)

	return server
}

// analyzeSentimentAsync runs sentiment analysis for a new post off the
// request path and persists the result. Failures leave the post's
// sentiment fields untouched.
func (s *Server) analyzeSentimentAsync(postID uint, content string) {
	if !s.checker.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		fields := map[string]interface{}{"post_id": postID}
		observability.LogAsyncOperationStart(ctx, "sentiment_analysis", fields)

		result, err := s.checker.Analyze(ctx, content)
		if err != nil {
			observability.LogAsyncOperationError(ctx, "sentiment_analysis", err, fields)
			return
		}
		if err := s.repos.Posts.UpdateSentiment(ctx, postID, result.Score, result.Confidence); err != nil {
			observability.LogAsyncOperationError(ctx, "sentiment_analysis", err, fields)
			return
		}
		observability.LogAsyncOperationEnd(ctx, "sentiment_analysis", fields)
	}()
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
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

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	api.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	api.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	api.Post("/logout", s.Logout)
	api.Get("/auth/user", s.AuthRequired(), s.CurrentUser)

	// Public browse routes; viewer-aware flags apply when a valid token is
	// attached.
	api.Get("/posts", s.GetPosts)
	api.Get("/posts/following", s.AuthRequired(), s.GetFollowingFeed)
	api.Get("/posts/:id/comments", s.GetComments)
	api.Get("/posts/:id", s.GetPost)
	api.Get("/trending/tags", s.GetTrendingTags)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// Post routes
	protected.Post("/posts", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	protected.Post("/posts/:id/like", s.ToggleLike)
	protected.Post("/posts/:id/bookmark", s.ToggleBookmark)
	protected.Post("/posts/:postId/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	protected.Put("/posts/:id", s.UpdatePost)
	protected.Delete("/posts/:id", s.DeletePost)
	protected.Delete("/comments/:id", s.DeleteComment)
	protected.Get("/bookmarks", s.GetBookmarkedPosts)
	protected.Get("/liked", s.GetLikedPosts)

	// User routes. Specific /:id/:resource routes go BEFORE generic /:id.
	protected.Get("/users", s.GetUsers)
	protected.Put("/users/me", s.UpdateMyProfile)
	api.Get("/users/:id/followers", s.GetFollowers)
	api.Get("/users/:id/following", s.GetFollowing)
	protected.Get("/users/:id/posts", s.GetUserPosts)
	protected.Get("/users/:id/liked", s.GetUserLikedPosts)
	protected.Post("/users/:id/follow", s.ToggleFollow)
	protected.Get("/users/:id/follow", s.GetFollowStatus)
	protected.Get("/users/:id/friendship-status", s.GetFriendshipStatus)
	api.Get("/users/:id", s.GetUserProfile)

	// Friend routes
	protected.Post("/friend-requests", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "friend_request"), s.SendFriendRequest)
	protected.Get("/friend-requests", s.GetFriendRequests)
	protected.Put("/friend-requests/:id", s.RespondToFriendRequest)
	protected.Get("/friends", s.GetFriends)
	protected.Delete("/friends/:userId", s.RemoveFriend)

	// Message routes
	protected.Get("/messages/conversations", s.GetConversations)
	protected.Post("/messages", middleware.RateLimit(
		s.redis, 15, time.Minute, "send_message"), s.SendMessage)
	protected.Get("/messages/:userId", s.GetConversation)

	// Notification routes
	protected.Get("/notifications", s.GetNotifications)
	protected.Get("/notifications/unread-count", s.GetUnreadNotificationCount)
	protected.Put("/notifications/mark-all-read", s.MarkAllNotificationsRead)
	protected.Put("/notifications/:id/read", s.MarkNotificationRead)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/users", s.AdminListUsers)
	admin.Get("/posts", s.AdminListPosts)
	admin.Delete("/posts/:id", s.AdminDeletePost)
	admin.Patch("/users/:id/role", s.AdminUpdateUserRole)
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

	storageStatus := "healthy"
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			storageStatus = "unhealthy"
		} else if err := sqlDB.PingContext(ctx); err != nil {
			storageStatus = "unhealthy"
		}
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storageStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"storage": storageStatus,
			"redis":   redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.userService.IsAdmin(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
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

		userID, jti, err := s.parseToken(c.Context(), tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		// Check JTI for revocation
		if jti != "" && s.redis != nil {
			isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
			if err == nil && isBlacklisted > 0 {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Token has been revoked"))
			}
		}

		// Store user ID in context
		c.Locals("userID", userID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// parseToken validates a JWT and returns the user ID and JTI claims.
func (s *Server) parseToken(ctx context.Context, tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", models.NewUnauthorizedError("Invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "ovra-api" {
		return 0, "", models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "ovra-client" {
		return 0, "", models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, "", models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, "", models.NewUnauthorizedError("Invalid user ID in token")
	}

	jti, _ := claims["jti"].(string)
	return uint(userID), jti, nil
}

// optionalUserID extracts the userID from the Authorization header but does
// not enforce it. Anonymous viewers get zero.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0
	}
	userID, _, err := s.parseToken(c.Context(), parts[1])
	if err != nil {
		return 0
	}
	return userID
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Ovra API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	s.fanout.Start()

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop accepting requests first, then drain the fan-out queue.
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	s.fanout.Stop()

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				log.Printf("error closing sql DB: %v", cerr)
			}
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
