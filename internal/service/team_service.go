package service

import (
	"context"
	"errors"

	"taskboard/internal/authz"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/queue"
	"taskboard/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team page sizes.
const (
	DefaultTeamLimit = 10
	MaxTeamLimit     = 100
)

// TeamService handles business logic for team operations.
type TeamService struct {
	teamRepo repository.TeamRepository
	taskRepo repository.TaskRepository
	engine   *authz.Engine
	cleanup  queue.Queue
	log      logrus.FieldLogger
}

// TeamServiceConfig holds configuration for TeamService.
type TeamServiceConfig struct {
	TeamRepo repository.TeamRepository
	TaskRepo repository.TaskRepository
	Engine   *authz.Engine
	// Cleanup receives a job per deleted team. When nil, or when the queue
	// rejects the job, the team's tasks are deleted inline.
	Cleanup queue.Queue
	Logger  logrus.FieldLogger
}

// NewTeamService creates a new TeamService.
func NewTeamService(cfg TeamServiceConfig) *TeamService {
	return &TeamService{
		teamRepo: cfg.TeamRepo,
		taskRepo: cfg.TaskRepo,
		engine:   cfg.Engine,
		cleanup:  cfg.Cleanup,
		log:      loggerOrDefault(cfg.Logger),
	}
}

// ListTeams returns a page of the teams visible to the actor.
func (s *TeamService) ListTeams(ctx context.Context, actor authz.Actor, page, limit int) (*models.TeamListResponse, error) {
	scope, d, err := s.engine.ScopeTeams(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		return nil, denied(s.log, actor, authz.ActionTeamView, d)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultTeamLimit
	}
	if limit > MaxTeamLimit {
		limit = MaxTeamLimit
	}

	teams, total, err := s.teamRepo.List(ctx, scope.TeamRestriction(), page, limit)
	if err != nil {
		return nil, err
	}

	return &models.TeamListResponse{
		Items:      teams,
		Pagination: models.NewPagination(page, limit, int64(total)),
	}, nil
}

// GetTeam returns a team the actor may view.
func (s *TeamService) GetTeam(ctx context.Context, actor authz.Actor, teamID primitive.ObjectID) (*models.Team, error) {
	d, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionTeamView,
		Target: authz.Target{TeamID: teamID},
	})
	if err != nil {
		return nil, err
	}
	return d.Team, nil
}

// CreateTeam creates a team whose member set always includes the creator.
func (s *TeamService) CreateTeam(ctx context.Context, actor authz.Actor, req *models.CreateTeamRequest) (*models.Team, error) {
	memberIDs, err := parseObjectIDs(req.MemberIDs)
	if err != nil {
		return nil, err
	}

	d, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionTeamCreate,
		Change: authz.Change{Team: authz.TeamChange{
			Name:        &req.Name,
			Description: &req.Description,
			MemberIDs:   memberIDs,
		}},
	})
	if err != nil {
		return nil, err
	}

	team := d.Team
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// UpdateTeam renames or re-describes a team.
func (s *TeamService) UpdateTeam(ctx context.Context, actor authz.Actor, teamID primitive.ObjectID, req *models.UpdateTeamRequest) (*models.Team, error) {
	d, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionTeamUpdate,
		Target: authz.Target{TeamID: teamID},
		Change: authz.Change{Team: authz.TeamChange{
			Name:        req.Name,
			Description: req.Description,
		}},
	})
	if err != nil {
		return nil, err
	}

	team := d.Team
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam removes a team and schedules removal of its tasks.
func (s *TeamService) DeleteTeam(ctx context.Context, actor authz.Actor, teamID primitive.ObjectID) error {
	_, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionTeamDelete,
		Target: authz.Target{TeamID: teamID},
	})
	if err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return err
	}

	if s.cleanup != nil {
		err := s.cleanup.Enqueue(queue.CleanupJob{TeamID: teamID})
		if err == nil {
			return nil
		}
		if !errors.Is(err, queue.ErrQueueFull) && !errors.Is(err, queue.ErrQueueClosed) {
			return err
		}
		s.log.WithError(err).WithField("team_id", teamID.Hex()).Warn("cleanup queue unavailable, deleting tasks inline")
	}

	deleted, err := s.taskRepo.DeleteByTeamID(ctx, teamID)
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"team_id": teamID.Hex(),
		"deleted": deleted,
	}).Info("team tasks purged")
	return nil
}

// AddMember adds a user to a team. A concurrent add of the same user
// surfaces as ErrAlreadyMember.
func (s *TeamService) AddMember(ctx context.Context, actor authz.Actor, teamID, userID primitive.ObjectID) (*models.Team, error) {
	_, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionTeamAddMember,
		Target: authz.Target{TeamID: teamID, UserID: userID},
	})
	if err != nil {
		return nil, err
	}

	return s.teamRepo.AddMember(ctx, teamID, userID)
}

func parseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, apperrors.ErrInvalidID
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseOptionalObjectID(hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, apperrors.ErrInvalidID
	}
	return &id, nil
}
