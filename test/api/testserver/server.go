//go:build api

// Package testserver provides a fully wired test server for API integration tests.
package testserver

import (
	"context"
	"time"

	"taskboard/internal/authz"
	"taskboard/internal/cache"
	"taskboard/internal/database"
	"taskboard/internal/handler"
	"taskboard/internal/metrics"
	"taskboard/internal/queue"
	"taskboard/internal/repository"
	"taskboard/internal/router"
	"taskboard/internal/service"
	"taskboard/pkg/auth"
	"taskboard/test/api/testdb"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// TestJWTSecret is the JWT secret used in tests.
	TestJWTSecret = "test-secret-key-for-api-tests"
	// TestJWTExpiry is the token expiry used in tests.
	TestJWTExpiry = 15 * time.Minute
	// TestSessionTTL is how long session state stays cached in Redis.
	TestSessionTTL = time.Minute
	// TestDBName is the database name used in tests.
	TestDBName = "test_api"
)

// TestServer holds all dependencies for API integration tests.
type TestServer struct {
	// Router is the Gin engine for making HTTP requests.
	Router *gin.Engine

	// Stores exposes the raw MongoDB and Redis connections.
	Stores *testdb.Stores

	// Repositories (for direct database access in tests)
	UserRepo repository.UserRepository
	TeamRepo repository.TeamRepository
	TaskRepo repository.TaskRepository

	Sessions   cache.SessionStore
	JWTManager *auth.JWTManager
	Hasher     auth.PasswordHasher

	CleanupQueue     *queue.MemoryQueue
	CleanupProcessor *queue.Processor
	cancel           context.CancelFunc
}

// New creates a new test server with all dependencies wired up.
func New(ctx context.Context) (*TestServer, error) {
	gin.SetMode(gin.TestMode)

	stores, err := testdb.Start(ctx, TestDBName)
	if err != nil {
		return nil, err
	}

	if err := database.EnsureIndexes(ctx, stores.DB); err != nil {
		stores.Stop(ctx)
		return nil, err
	}

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	redisCache := cache.NewRedisFromClient(stores.Redis)
	sessions := cache.NewSessionStore(redisCache)
	jwtManager := auth.NewJWTManager(TestJWTSecret, TestJWTExpiry)
	hasher := auth.NewBcryptHasher(4)
	m := metrics.New()

	userRepo := repository.NewUserRepository(stores.DB)
	teamRepo := repository.NewTeamRepository(stores.DB)
	taskRepo := repository.NewTaskRepository(stores.DB)

	engine := authz.NewEngine(userRepo, teamRepo, taskRepo, authz.WithObserver(m))

	cleanupQueue := queue.NewMemoryQueue(16)
	processor := queue.NewProcessor(cleanupQueue, taskRepo, 1,
		queue.WithLogger(log), queue.WithRetryDelay(10*time.Millisecond))

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:   userRepo,
		Sessions:   sessions,
		JWTManager: jwtManager,
		Hasher:     hasher,
		SessionTTL: TestSessionTTL,
		Logger:     log,
	})
	userService := service.NewUserService(service.UserServiceConfig{
		UserRepo:   userRepo,
		Engine:     engine,
		Hasher:     hasher,
		Sessions:   sessions,
		SessionTTL: TestSessionTTL,
		Logger:     log,
	})
	teamService := service.NewTeamService(service.TeamServiceConfig{
		TeamRepo: teamRepo,
		TaskRepo: taskRepo,
		Engine:   engine,
		Cleanup:  cleanupQueue,
		Logger:   log,
	})

	r := router.Setup(&router.Config{
		AuthHandler:   handler.NewAuthHandler(authService, log),
		UserHandler:   handler.NewUserHandler(userService, log),
		TeamHandler:   handler.NewTeamHandler(teamService, log),
		TaskHandler:   handler.NewTaskHandler(service.NewTaskService(taskRepo, engine, log), log),
		StatsHandler:  handler.NewStatsHandler(service.NewStatsService(taskRepo, userRepo, engine, log), log),
		Tokens:        jwtManager,
		Authenticator: authService,
		Metrics:       m,
		CORSOrigins:   []string{"*"},
		Logger:        log,
		Health: map[string]router.Pinger{
			"mongodb": &database.MongoDB{Client: stores.MongoClient, Database: stores.DB},
			"redis":   redisCache,
		},
	})

	procCtx, cancel := context.WithCancel(context.Background())
	processor.Start(procCtx)

	return &TestServer{
		Router:           r,
		Stores:           stores,
		UserRepo:         userRepo,
		TeamRepo:         teamRepo,
		TaskRepo:         taskRepo,
		Sessions:         sessions,
		JWTManager:       jwtManager,
		Hasher:           hasher,
		CleanupQueue:     cleanupQueue,
		CleanupProcessor: processor,
		cancel:           cancel,
	}, nil
}

// Cleanup stops the cleanup workers and terminates all containers.
func (ts *TestServer) Cleanup(ctx context.Context) {
	ts.CleanupQueue.Close()
	ts.cancel()
	ts.CleanupProcessor.Stop()

	ts.Stores.Stop(ctx)
}
