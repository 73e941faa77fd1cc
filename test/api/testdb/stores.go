//go:build api

// Package testdb starts the MongoDB and Redis containers backing the API tests.
package testdb

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// Stores holds live connections to both containers. Its lifecycle is owned by
// TestMain, so nothing here registers t.Cleanup hooks.
type Stores struct {
	MongoClient *mongo.Client
	DB          *mongo.Database
	Redis       *redis.Client

	mongoC testcontainers.Container
	redisC testcontainers.Container
}

// Start boots both containers in parallel and connects to them.
func Start(ctx context.Context, dbName string) (*Stores, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	s := &Stores{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.startMongo(gctx, dbName) })
	g.Go(func() error { return s.startRedis(gctx) })
	if err := g.Wait(); err != nil {
		s.Stop(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Stores) startMongo(ctx context.Context, dbName string) error {
	c, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		return fmt.Errorf("start mongodb: %w", err)
	}
	s.mongoC = c

	uri, err := c.ConnectionString(ctx)
	if err != nil {
		return err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	s.MongoClient = client
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}

	s.DB = client.Database(dbName)
	return nil
}

func (s *Stores) startRedis(ctx context.Context) error {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("start redis: %w", err)
	}
	s.redisC = c

	endpoint, err := c.Endpoint(ctx, "")
	if err != nil {
		return err
	}
	s.Redis = redis.NewClient(&redis.Options{Addr: endpoint})
	if err := s.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Reset deletes every document and every Redis key. Collections and their
// indexes are kept.
func (s *Stores) Reset(ctx context.Context) error {
	names, err := s.DB.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := s.DB.Collection(name).DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	return s.FlushRedis(ctx)
}

// FlushRedis drops every cached session.
func (s *Stores) FlushRedis(ctx context.Context) error {
	return s.Redis.FlushDB(ctx).Err()
}

// Stop disconnects the clients and terminates whatever containers started.
func (s *Stores) Stop(ctx context.Context) {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if s.MongoClient != nil {
		_ = s.MongoClient.Disconnect(ctx)
	}
	for _, c := range []testcontainers.Container{s.redisC, s.mongoC} {
		if c != nil {
			_ = c.Terminate(ctx)
		}
	}
}
