package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/authz"
	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/handler"
	"taskboard/internal/logger"
	"taskboard/internal/metrics"
	"taskboard/internal/queue"
	"taskboard/internal/repository"
	"taskboard/internal/router"
	"taskboard/internal/service"
	"taskboard/internal/validator"
	"taskboard/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @title           Taskboard API
// @version         1.0
// @description     Multi-tenant task tracker with member, lead and admin roles.

// @contact.name    API Support
// @contact.email   support@example.com

// @host            localhost:8080
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

func main() {
	cfg := config.Load()

	log, err := logger.Setup(logger.Options{
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		SentryDSN: cfg.SentryDSN,
	})
	if err != nil {
		log.WithError(err).Warn("sentry disabled")
	}
	defer logger.Flush()

	validator.RegisterCustomValidators()
	gin.SetMode(cfg.GinMode)

	// Database
	mongoDB, err := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to mongodb")
	}
	defer mongoDB.Close()

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, mongoDB.Database); err != nil {
		log.WithError(err).Fatal("failed to ensure indexes")
	}
	indexCancel()

	// Redis session cache. The service degrades to reading the user record
	// on every request when Redis is unavailable at startup.
	var sessions cache.SessionStore
	health := map[string]router.Pinger{"mongodb": mongoDB}
	redisCache, err := cache.NewRedis(cfg.RedisURI)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, session cache disabled")
	} else {
		defer redisCache.Close()
		sessions = cache.NewSessionStore(redisCache)
		health["redis"] = redisCache
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	hasher := auth.NewBcryptHasher(0)
	m := metrics.New()

	// Repository layer
	userRepo := repository.NewUserRepository(mongoDB.Database)
	teamRepo := repository.NewTeamRepository(mongoDB.Database)
	taskRepo := repository.NewTaskRepository(mongoDB.Database)

	engine := authz.NewEngine(userRepo, teamRepo, taskRepo, authz.WithObserver(m))

	// Deleted teams hand their tasks to the cleanup workers.
	cleanupQueue := queue.NewMemoryQueue(cfg.CleanupQueueSize)
	cleanupProcessor := queue.NewProcessor(cleanupQueue, taskRepo, cfg.CleanupWorkers, queue.WithLogger(log))

	// Service layer
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:   userRepo,
		Sessions:   sessions,
		JWTManager: jwtManager,
		Hasher:     hasher,
		SessionTTL: cfg.SessionCacheTTL,
		Logger:     log,
	})
	userService := service.NewUserService(service.UserServiceConfig{
		UserRepo:   userRepo,
		Engine:     engine,
		Hasher:     hasher,
		Sessions:   sessions,
		SessionTTL: cfg.SessionCacheTTL,
		Logger:     log,
	})
	teamService := service.NewTeamService(service.TeamServiceConfig{
		TeamRepo: teamRepo,
		TaskRepo: taskRepo,
		Engine:   engine,
		Cleanup:  cleanupQueue,
		Logger:   log,
	})
	taskService := service.NewTaskService(taskRepo, engine, log)
	statsService := service.NewStatsService(taskRepo, userRepo, engine, log)

	r := router.Setup(&router.Config{
		AuthHandler:   handler.NewAuthHandler(authService, log),
		UserHandler:   handler.NewUserHandler(userService, log),
		TeamHandler:   handler.NewTeamHandler(teamService, log),
		TaskHandler:   handler.NewTaskHandler(taskService, log),
		StatsHandler:  handler.NewStatsHandler(statsService, log),
		Tokens:        jwtManager,
		Authenticator: authService,
		Metrics:       m,
		CORSOrigins:   cfg.CORSOrigins,
		Logger:        log,
		Health:        health,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupProcessor.Start(ctx)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Drain HTTP first so no new cleanup jobs arrive while workers stop.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown error")
	}

	cleanupQueue.Close()
	cancel()
	cleanupProcessor.Stop()

	log.WithFields(logrus.Fields{"pending_jobs": cleanupQueue.Len()}).Info("server shutdown complete")
}
