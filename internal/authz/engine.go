package authz

import (
	"context"
	"errors"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DecisionObserver is notified of every decision the engine makes.
type DecisionObserver interface {
	ObserveDecision(action Action, d Decision)
}

// Engine resolves snapshots for an AuthorizationRequest and runs the
// matching guard. It holds no per-request state.
type Engine struct {
	users    UserFinder
	teams    TeamFinder
	tasks    TaskFinder
	observer DecisionObserver
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver sets the observer notified of each decision.
func WithObserver(o DecisionObserver) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// NewEngine creates a new Engine.
func NewEngine(users UserFinder, teams TeamFinder, tasks TaskFinder, opts ...Option) *Engine {
	e := &Engine{
		users: users,
		teams: teams,
		tasks: tasks,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Oracle returns a fresh memoizing oracle for one request.
func (e *Engine) Oracle() *RequestOracle {
	return NewRequestOracle(e.users, e.teams)
}

// Authorize decides req with a fresh oracle. A non-nil error means the
// decision could not be made; the returned Decision is then a zero Deny.
func (e *Engine) Authorize(ctx context.Context, req AuthorizationRequest) (Decision, error) {
	return e.AuthorizeWith(ctx, e.Oracle(), req)
}

// AuthorizeWith decides req using an oracle shared with other decisions of
// the same request.
func (e *Engine) AuthorizeWith(ctx context.Context, o *RequestOracle, req AuthorizationRequest) (Decision, error) {
	d, err := e.decide(ctx, o, req)
	if err != nil {
		return Decision{}, err
	}
	if e.observer != nil {
		e.observer.ObserveDecision(req.Action, d)
	}
	return d, nil
}

func (e *Engine) decide(ctx context.Context, o *RequestOracle, req AuthorizationRequest) (Decision, error) {
	switch req.Action {
	case ActionTaskCreate:
		return e.decideTaskCreate(ctx, o, req)
	case ActionTaskUpdate:
		return e.decideTaskUpdate(ctx, o, req)
	case ActionTaskDelete, ActionTaskView:
		task, err := e.task(ctx, req.Target.TaskID)
		if err != nil || task == nil {
			return Deny(ReasonTaskNotFound), err
		}
		team, err := o.Team(ctx, task.TeamID)
		if err != nil {
			return Decision{}, err
		}
		if req.Action == ActionTaskDelete {
			return CheckTaskDelete(TaskDeleteInput{Actor: req.Actor, Task: task, Team: team}), nil
		}
		return CheckTaskView(TaskViewInput{Actor: req.Actor, Task: task, Team: team}), nil

	case ActionTeamCreate:
		found, err := o.Users(ctx, req.Change.Team.MemberIDs)
		if err != nil {
			return Decision{}, err
		}
		return CheckTeamCreate(TeamCreateInput{Actor: req.Actor, Change: req.Change.Team, Found: found}), nil
	case ActionTeamUpdate, ActionTeamDelete, ActionTeamView:
		team, err := o.Team(ctx, req.Target.TeamID)
		if err != nil {
			return Decision{}, err
		}
		switch req.Action {
		case ActionTeamUpdate:
			return CheckTeamUpdate(TeamUpdateInput{Actor: req.Actor, Team: team, Change: req.Change.Team}), nil
		case ActionTeamDelete:
			return CheckTeamDelete(TeamDeleteInput{Actor: req.Actor, Team: team}), nil
		default:
			return CheckTeamView(TeamViewInput{Actor: req.Actor, Team: team}), nil
		}
	case ActionTeamAddMember:
		team, err := o.Team(ctx, req.Target.TeamID)
		if err != nil {
			return Decision{}, err
		}
		user, err := o.User(ctx, req.Target.UserID)
		if err != nil {
			return Decision{}, err
		}
		return CheckTeamAddMember(TeamAddMemberInput{
			Actor:  req.Actor,
			Team:   team,
			UserID: req.Target.UserID,
			User:   user,
		}), nil

	case ActionUserCreate:
		return CheckUserCreate(UserCreateInput{Actor: req.Actor, Change: req.Change.User}), nil
	case ActionUserUpdateRole:
		target, err := o.User(ctx, req.Target.UserID)
		if err != nil {
			return Decision{}, err
		}
		return CheckUserRoleUpdate(UserRoleUpdateInput{
			Actor:    req.Actor,
			TargetID: req.Target.UserID,
			Target:   target,
			Change:   req.Change.User,
		}), nil
	case ActionUserList:
		return CheckUserDirectory(UserDirectoryInput{Actor: req.Actor, Query: req.Change.Query}), nil
	}
	return Deny(ReasonUnknownAction), nil
}

func (e *Engine) decideTaskCreate(ctx context.Context, o *RequestOracle, req AuthorizationRequest) (Decision, error) {
	in := TaskCreateInput{Actor: req.Actor, Change: req.Change.Task}
	if req.Actor.Role == models.RoleMember {
		return CheckTaskCreate(in), nil
	}

	var err error
	if req.Change.Task.TeamID != nil {
		if in.Team, err = o.Team(ctx, *req.Change.Task.TeamID); err != nil {
			return Decision{}, err
		}
	}
	if req.Change.Task.AssignedTo != nil {
		if in.Assignee, err = o.User(ctx, *req.Change.Task.AssignedTo); err != nil {
			return Decision{}, err
		}
	}
	return CheckTaskCreate(in), nil
}

func (e *Engine) decideTaskUpdate(ctx context.Context, o *RequestOracle, req AuthorizationRequest) (Decision, error) {
	task, err := e.task(ctx, req.Target.TaskID)
	if err != nil || task == nil {
		return Deny(ReasonTaskNotFound), err
	}

	in := TaskUpdateInput{Actor: req.Actor, Task: task, Change: req.Change.Task}
	if in.Team, err = o.Team(ctx, task.TeamID); err != nil {
		return Decision{}, err
	}
	if teamChanging(task, req.Change.Task) {
		if in.NewTeam, err = o.Team(ctx, *req.Change.Task.TeamID); err != nil {
			return Decision{}, err
		}
	}
	if req.Change.Task.AssignedTo != nil && !req.Change.Task.Unassign {
		if in.Assignee, err = o.User(ctx, *req.Change.Task.AssignedTo); err != nil {
			return Decision{}, err
		}
	}
	return CheckTaskUpdate(in), nil
}

// task returns the task snapshot, or nil if it does not exist.
func (e *Engine) task(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, err := e.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

// ScopeTasks computes the task read scope for actor, validating an explicit
// team filter against the actor's memberships.
func (e *Engine) ScopeTasks(ctx context.Context, actor Actor, teamFilter *primitive.ObjectID) (TaskScope, Decision, error) {
	var memberOf []primitive.ObjectID
	if !actor.IsAdmin() {
		var err error
		if memberOf, err = e.Oracle().Memberships(ctx, actor.ID); err != nil {
			return TaskScope{}, Decision{}, err
		}
	}
	scope, d := ScopeTasks(actor, memberOf, teamFilter)
	if e.observer != nil {
		e.observer.ObserveDecision(ActionTaskView, d)
	}
	return scope, d, nil
}

// ScopeTeams computes the team read scope for actor.
func (e *Engine) ScopeTeams(ctx context.Context, actor Actor) (TaskScope, Decision, error) {
	var memberOf []primitive.ObjectID
	if !actor.IsAdmin() {
		var err error
		if memberOf, err = e.Oracle().Memberships(ctx, actor.ID); err != nil {
			return TaskScope{}, Decision{}, err
		}
	}
	scope, d := ScopeTeams(actor, memberOf)
	if e.observer != nil {
		e.observer.ObserveDecision(ActionTeamView, d)
	}
	return scope, d, nil
}
