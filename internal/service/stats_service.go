package service

import (
	"context"

	"taskboard/internal/authz"
	"taskboard/internal/models"
	"taskboard/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// StatsService summarizes the tasks visible to an actor.
type StatsService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	engine   *authz.Engine
	log      logrus.FieldLogger
}

// NewStatsService creates a new StatsService.
func NewStatsService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, engine *authz.Engine, log logrus.FieldLogger) *StatsService {
	return &StatsService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		engine:   engine,
		log:      loggerOrDefault(log),
	}
}

// GetStats returns task counts for the actor's scope. Admins also get the
// total number of users.
func (s *StatsService) GetStats(ctx context.Context, actor authz.Actor) (*models.TaskStats, error) {
	scope, d, err := s.engine.ScopeTasks(ctx, actor, nil)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		return nil, denied(s.log, actor, authz.ActionTaskView, d)
	}

	var (
		stats      *models.TaskStats
		totalUsers int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.taskRepo.Stats(gctx, scope.TeamRestriction())
		return err
	})
	if actor.IsAdmin() {
		g.Go(func() error {
			var err error
			totalUsers, err = s.userRepo.Count(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if actor.IsAdmin() {
		stats.TotalUsers = &totalUsers
	}
	return stats, nil
}
