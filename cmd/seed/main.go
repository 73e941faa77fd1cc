package main

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/database"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/pkg/auth"

	"github.com/sirupsen/logrus"
)

// Bootstraps the first admin account. Admins cannot be created through the
// API, so a fresh deployment needs this once.
func main() {
	cfg := config.Load()
	seed := config.LoadSeed()

	log := logger.New(logger.Options{Env: cfg.AppEnv, Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Info("starting seed")

	mongoDB, err := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to mongodb")
	}
	defer mongoDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.EnsureIndexes(ctx, mongoDB.Database); err != nil {
		log.WithError(err).Fatal("failed to ensure indexes")
	}

	users := repository.NewUserRepository(mongoDB.Database)
	if err := seedAdmin(ctx, users, auth.NewBcryptHasher(0), seed, log); err != nil {
		log.WithError(err).Fatal("seed failed")
	}

	log.Info("seed completed")
}

// seedAdmin creates the admin or promotes an existing account with the same
// email. The password of an existing account is left untouched.
func seedAdmin(ctx context.Context, users repository.UserRepository, hasher auth.PasswordHasher, seed *config.SeedConfig, log logrus.FieldLogger) error {
	existing, err := users.FindByEmail(ctx, seed.AdminEmail)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			log.WithField("email", seed.AdminEmail).Info("admin already present")
			return nil
		}
		if _, err := users.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return err
		}
		log.WithField("email", seed.AdminEmail).Info("promoted existing user to admin")
		return nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return err
	}

	hash, err := hasher.Hash(seed.AdminPassword)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:    seed.AdminEmail,
		Password: hash,
		Name:     seed.AdminName,
		Role:     models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"email": admin.Email, "user_id": admin.ID.Hex()}).Info("created admin")
	return nil
}
