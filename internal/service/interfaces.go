package service

import (
	"context"

	"taskboard/internal/authz"
	"taskboard/internal/models"
	"taskboard/pkg/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthServicer defines the interface for authentication operations.
type AuthServicer interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.LoginResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, actor authz.Actor) error
	Me(ctx context.Context, actor authz.Actor) (*models.User, error)
}

// Authenticator resolves token claims to the acting user.
type Authenticator interface {
	Authenticate(ctx context.Context, claims *auth.Claims) (authz.Actor, error)
}

// UserServicer defines the interface for user operations.
type UserServicer interface {
	SearchByEmail(ctx context.Context, actor authz.Actor, email string) (*models.UserSummary, error)
	List(ctx context.Context, actor authz.Actor, filter *models.UserFilter) (*models.UserListResponse, error)
	Create(ctx context.Context, actor authz.Actor, req *models.CreateUserRequest) (*models.UserSummary, error)
	UpdateRole(ctx context.Context, actor authz.Actor, userID primitive.ObjectID, role models.Role) (*models.UserSummary, error)
	ChangePassword(ctx context.Context, actor authz.Actor, req *models.ChangePasswordRequest) error
}

// TeamServicer defines the interface for team operations.
type TeamServicer interface {
	ListTeams(ctx context.Context, actor authz.Actor, page, limit int) (*models.TeamListResponse, error)
	GetTeam(ctx context.Context, actor authz.Actor, teamID primitive.ObjectID) (*models.Team, error)
	CreateTeam(ctx context.Context, actor authz.Actor, req *models.CreateTeamRequest) (*models.Team, error)
	UpdateTeam(ctx context.Context, actor authz.Actor, teamID primitive.ObjectID, req *models.UpdateTeamRequest) (*models.Team, error)
	DeleteTeam(ctx context.Context, actor authz.Actor, teamID primitive.ObjectID) error
	AddMember(ctx context.Context, actor authz.Actor, teamID, userID primitive.ObjectID) (*models.Team, error)
}

// TaskServicer defines the interface for task operations.
type TaskServicer interface {
	ListTasks(ctx context.Context, actor authz.Actor, filter *models.TaskFilter) (*models.TaskListResponse, error)
	SearchTasks(ctx context.Context, actor authz.Actor, q string) ([]models.Task, error)
	GetTask(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID) (*models.Task, error)
	CreateTask(ctx context.Context, actor authz.Actor, req *models.CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID, change authz.TaskChange) (*models.Task, error)
	DeleteTask(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID) error
}

// StatsServicer defines the interface for dashboard statistics.
type StatsServicer interface {
	GetStats(ctx context.Context, actor authz.Actor) (*models.TaskStats, error)
}

// Ensure concrete types implement interfaces
var (
	_ AuthServicer  = (*AuthService)(nil)
	_ Authenticator = (*AuthService)(nil)
	_ UserServicer  = (*UserService)(nil)
	_ TeamServicer  = (*TeamService)(nil)
	_ TaskServicer  = (*TaskService)(nil)
	_ StatsServicer = (*StatsService)(nil)
)
