package service

import (
	"context"
	"strings"

	"taskboard/internal/authz"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task page sizes.
const (
	DefaultTaskLimit = 10
	MaxTaskLimit     = 100
)

// TaskService handles business logic for task operations.
type TaskService struct {
	taskRepo repository.TaskRepository
	engine   *authz.Engine
	log      logrus.FieldLogger
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, engine *authz.Engine, log logrus.FieldLogger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		engine:   engine,
		log:      loggerOrDefault(log),
	}
}

// scope returns the teams the actor may read tasks from.
func (s *TaskService) scope(ctx context.Context, actor authz.Actor, teamFilter *primitive.ObjectID) (authz.TaskScope, error) {
	scope, d, err := s.engine.ScopeTasks(ctx, actor, teamFilter)
	if err != nil {
		return authz.TaskScope{}, err
	}
	if !d.Allowed {
		return authz.TaskScope{}, denied(s.log, actor, authz.ActionTaskView, d)
	}
	return scope, nil
}

// ListTasks returns a page of the tasks visible to the actor.
func (s *TaskService) ListTasks(ctx context.Context, actor authz.Actor, filter *models.TaskFilter) (*models.TaskListResponse, error) {
	teamID, err := parseOptionalObjectID(filter.TeamID)
	if err != nil {
		return nil, err
	}
	assignedTo, err := parseOptionalObjectID(filter.AssignedTo)
	if err != nil {
		return nil, err
	}
	createdBy, err := parseOptionalObjectID(filter.CreatedBy)
	if err != nil {
		return nil, err
	}

	scope, err := s.scope(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = DefaultTaskLimit
	}
	if limit > MaxTaskLimit {
		limit = MaxTaskLimit
	}

	tasks, total, err := s.taskRepo.Find(ctx, repository.TaskQuery{
		TeamIDs:    scope.TeamRestriction(),
		Status:     filter.Status,
		Priority:   filter.Priority,
		AssignedTo: assignedTo,
		CreatedBy:  createdBy,
		DueBefore:  filter.DueBefore,
		DueAfter:   filter.DueAfter,
		Page:       page,
		Limit:      limit,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	return &models.TaskListResponse{
		Items:      tasks,
		Pagination: models.NewPagination(page, limit, int64(total)),
	}, nil
}

// SearchTasks finds visible tasks whose title or description contains q.
func (s *TaskService) SearchTasks(ctx context.Context, actor authz.Actor, q string) ([]models.Task, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperrors.ErrSearchRequired
	}

	scope, err := s.scope(ctx, actor, nil)
	if err != nil {
		return nil, err
	}

	return s.taskRepo.Search(ctx, scope.TeamRestriction(), q)
}

// GetTask returns a task the actor may view.
func (s *TaskService) GetTask(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID) (*models.Task, error) {
	d, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionTaskView,
		Target: authz.Target{TaskID: taskID},
	})
	if err != nil {
		return nil, err
	}
	return d.Task, nil
}

// CreateTask creates a task in a team the actor may write to.
func (s *TaskService) CreateTask(ctx context.Context, actor authz.Actor, req *models.CreateTaskRequest) (*models.Task, error) {
	teamID, err := primitive.ObjectIDFromHex(req.TeamID)
	if err != nil {
		return nil, apperrors.ErrInvalidID
	}
	assignedTo, err := parseOptionalObjectID(req.AssignedTo)
	if err != nil {
		return nil, err
	}

	change := authz.TaskChange{
		Title:       &req.Title,
		Description: &req.Description,
		AssignedTo:  assignedTo,
		TeamID:      &teamID,
		DueDate:     req.DueDate,
	}
	if req.Status != "" {
		change.Status = &req.Status
	}
	if req.Priority != "" {
		change.Priority = &req.Priority
	}

	d, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionTaskCreate,
		Change: authz.Change{Task: change},
	})
	if err != nil {
		return nil, err
	}

	task := d.Task
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies change to a task.
func (s *TaskService) UpdateTask(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID, change authz.TaskChange) (*models.Task, error) {
	d, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionTaskUpdate,
		Target: authz.Target{TaskID: taskID},
		Change: authz.Change{Task: change},
	})
	if err != nil {
		return nil, err
	}

	task := d.Task
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID) error {
	_, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionTaskDelete,
		Target: authz.Target{TaskID: taskID},
	})
	if err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, taskID)
}
