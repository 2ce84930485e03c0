package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"social-network/backend/internal/graph"
	"social-network/backend/pkg/config"
	apperrors "social-network/backend/pkg/errors"
	"social-network/backend/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting social graph API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify Neo4j connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity",
			zap.Error(apperrors.NewStoreConnectionFailed(cfg.Neo4jURI, err)))
	}

	// Initialize the graph repository and ensure constraints exist
	repo := graph.NewRepository(driver)
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize graph schema", zap.Error(err))
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	registerRoutes(router, repo, log)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// registerRoutes wires the graph operations onto the /api group
func registerRoutes(router *gin.Engine, repo *graph.Repository, log *zap.Logger) {
	api := router.Group("/api")
	{
		// List all users
		api.GET("/users", func(c *gin.Context) {
			users, err := repo.ListUsers(c.Request.Context())
			if err != nil {
				abortWithError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, users)
		})

		// Create a user
		api.POST("/users", func(c *gin.Context) {
			var req struct {
				Username string `json:"username" binding:"required"`
				Name     string `json:"name"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			userID, err := repo.CreateUser(c.Request.Context(), req.Username, req.Name)
			if err != nil {
				abortWithError(c, log, err)
				return
			}
			c.JSON(http.StatusCreated, gin.H{"user_id": userID})
		})

		// Get a single user
		api.GET("/users/:id", func(c *gin.Context) {
			user, err := repo.GetUser(c.Request.Context(), c.Param("id"))
			if err != nil {
				abortWithError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, user)
		})

		// Posts authored by a user, newest first
		api.GET("/users/:id/posts", func(c *gin.Context) {
			posts, err := repo.ListPostsByUser(c.Request.Context(), c.Param("id"))
			if err != nil {
				abortWithError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, posts)
		})

		// Feed: posts by everyone the user follows, newest first
		api.GET("/users/:id/feed", func(c *gin.Context) {
			feed, err := repo.GetFeed(c.Request.Context(), c.Param("id"))
			if err != nil {
				abortWithError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, feed)
		})

		api.GET("/users/:id/followers", func(c *gin.Context) {
			followers, err := repo.ListFollowers(c.Request.Context(), c.Param("id"))
			if err != nil {
				abortWithError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, followers)
		})

		api.GET("/users/:id/following", func(c *gin.Context) {
			following, err := repo.ListFollowing(c.Request.Context(), c.Param("id"))
			if err != nil {
				abortWithError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, following)
		})

		// Aggregated profile view; the user lookup gates the fan-out
		api.GET("/users/:id/profile", func(c *gin.Context) {
			ctx := c.Request.Context()
			userID := c.Param("id")

			user, err := repo.GetUser(ctx, userID)
			if err != nil {
				abortWithError(c, log, err)
				return
			}

			profile := graph.Profile{User: *user}
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				profile.Posts, err = repo.ListPostsByUser(gctx, userID)
				return err
			})
			g.Go(func() error {
				var err error
				profile.Followers, err = repo.ListFollowers(gctx, userID)
				return err
			})
			g.Go(func() error {
				var err error
				profile.Following, err = repo.ListFollowing(gctx, userID)
				return err
			})
			if err := g.Wait(); err != nil {
				abortWithError(c, log, err)
				return
			}

			c.JSON(http.StatusOK, profile)
		})

		// Create a post
		api.POST("/posts", func(c *gin.Context) {
			var req struct {
				UserID  string `json:"user_id" binding:"required"`
				Content string `json:"content" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			postID, err := repo.CreatePost(c.Request.Context(), req.UserID, req.Content)
			if err != nil {
				abortWithError(c, log, err)
				return
			}
			c.JSON(http.StatusCreated, gin.H{"post_id": postID})
		})

		// Follow a user
		api.POST("/follow", func(c *gin.Context) {
			var req followRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			created, err := repo.FollowUser(c.Request.Context(), req.FollowerID, req.FolloweeID)
			if err != nil {
				abortWithError(c, log, err)
				return
			}
			status := http.StatusOK
			if created {
				status = http.StatusCreated
			}
			c.JSON(status, gin.H{"success": true, "created": created})
		})

		// Unfollow a user
		api.POST("/unfollow", func(c *gin.Context) {
			var req followRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			removed, err := repo.UnfollowUser(c.Request.Context(), req.FollowerID, req.FolloweeID)
			if err != nil {
				abortWithError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"removed": removed})
		})
	}
}

type followRequest struct {
	FollowerID string `json:"follower_id" binding:"required"`
	FolloweeID string `json:"followee_id" binding:"required"`
}

// abortWithError maps the error taxonomy onto HTTP statuses. Store failures
// are logged server-side and reported as 500, distinct from logical failures.
func abortWithError(c *gin.Context, log *zap.Logger, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Error("Graph operation failed", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case apperrors.IsInvalidArgument(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
