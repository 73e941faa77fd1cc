package main

import (
	"context"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Env: cfg.AppEnv, Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Info("starting migration")

	mongoDB, err := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to mongodb")
	}
	defer mongoDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.EnsureIndexes(ctx, mongoDB.Database); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}

	log.Info("migration completed")
}
