// Package router sets up HTTP routes for the API.
package router

import (
	"context"
	"net/http"
	"time"

	_ "taskboard/swagger" // Import generated swagger docs

	"taskboard/internal/handler"
	"taskboard/internal/metrics"
	"taskboard/internal/middleware"
	"taskboard/internal/service"
	"taskboard/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds all dependencies needed to set up routes.
type Config struct {
	AuthHandler   *handler.AuthHandler
	UserHandler   *handler.UserHandler
	TeamHandler   *handler.TeamHandler
	TaskHandler   *handler.TaskHandler
	StatsHandler  *handler.StatsHandler
	Tokens        auth.TokenManager
	Authenticator service.Authenticator
	Metrics       *metrics.Metrics // optional
	CORSOrigins   []string
	Logger        logrus.FieldLogger

	// Health checks, keyed by component name.
	Health map[string]Pinger
}

// Setup creates and configures the Gin router.
func Setup(cfg *Config) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.GinMiddleware())
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Swagger docs at /docs
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", health(cfg.Health))
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	requireAuth := middleware.Auth(cfg.Tokens, cfg.Authenticator, log)

	// API v1
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/signup", cfg.AuthHandler.Signup)
			authRoutes.POST("/login", cfg.AuthHandler.Login)
		}

		// Auth routes (protected)
		authProtected := v1.Group("/auth")
		authProtected.Use(requireAuth)
		{
			authProtected.POST("/logout", cfg.AuthHandler.Logout)
			authProtected.GET("/me", cfg.AuthHandler.Me)
		}

		users := v1.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("/search", cfg.UserHandler.SearchByEmail)
			users.GET("", cfg.UserHandler.ListUsers)
			users.POST("", cfg.UserHandler.CreateUser)
			users.PUT("/me/password", cfg.UserHandler.ChangePassword)
			users.PUT("/:id/role", cfg.UserHandler.UpdateRole)
		}

		teams := v1.Group("/teams")
		teams.Use(requireAuth)
		{
			teams.GET("", cfg.TeamHandler.ListTeams)
			teams.POST("", cfg.TeamHandler.CreateTeam)
			teams.GET("/:id", cfg.TeamHandler.GetTeam)
			teams.PUT("/:id", cfg.TeamHandler.UpdateTeam)
			teams.DELETE("/:id", cfg.TeamHandler.DeleteTeam)
			teams.POST("/:id/members", cfg.TeamHandler.AddMember)
		}

		tasks := v1.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", cfg.TaskHandler.ListTasks)
			tasks.GET("/search", cfg.TaskHandler.SearchTasks)
			tasks.POST("", cfg.TaskHandler.CreateTask)
			tasks.GET("/:id", cfg.TaskHandler.GetTask)
			tasks.PUT("/:id", cfg.TaskHandler.UpdateTask)
			tasks.DELETE("/:id", cfg.TaskHandler.DeleteTask)
		}

		v1.GET("/stats", requireAuth, cfg.StatsHandler.GetStats)
	}

	return r
}

// health reports 503 when any component fails its ping.
func health(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		components := make(gin.H, len(checks))
		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				components[name] = "down"
				continue
			}
			components[name] = "up"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{"status": overall, "components": components})
	}
}
