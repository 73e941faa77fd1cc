// Package mocks provides mock implementations of service interfaces for testing.
package mocks

import (
	"context"

	"taskboard/internal/authz"
	"taskboard/internal/models"
	"taskboard/pkg/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockAuthService is a mock implementation of AuthServicer and Authenticator.
type MockAuthService struct {
	SignupFunc       func(ctx context.Context, req *models.SignupRequest) (*models.LoginResponse, error)
	LoginFunc        func(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	LogoutFunc       func(ctx context.Context, actor authz.Actor) error
	MeFunc           func(ctx context.Context, actor authz.Actor) (*models.User, error)
	AuthenticateFunc func(ctx context.Context, claims *auth.Claims) (authz.Actor, error)
}

func (m *MockAuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.LoginResponse, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) Logout(ctx context.Context, actor authz.Actor) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, actor)
	}
	return nil
}

func (m *MockAuthService) Me(ctx context.Context, actor authz.Actor) (*models.User, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx, actor)
	}
	return nil, nil
}

func (m *MockAuthService) Authenticate(ctx context.Context, claims *auth.Claims) (authz.Actor, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, claims)
	}
	return authz.Actor{}, nil
}

// MockUserService is a mock implementation of UserServicer.
type MockUserService struct {
	SearchByEmailFunc  func(ctx context.Context, actor authz.Actor, email string) (*models.UserSummary, error)
	ListFunc           func(ctx context.Context, actor authz.Actor, filter *models.UserFilter) (*models.UserListResponse, error)
	CreateFunc         func(ctx context.Context, actor authz.Actor, req *models.CreateUserRequest) (*models.UserSummary, error)
	UpdateRoleFunc     func(ctx context.Context, actor authz.Actor, userID primitive.ObjectID, role models.Role) (*models.UserSummary, error)
	ChangePasswordFunc func(ctx context.Context, actor authz.Actor, req *models.ChangePasswordRequest) error
}

func (m *MockUserService) SearchByEmail(ctx context.Context, actor authz.Actor, email string) (*models.UserSummary, error) {
	if m.SearchByEmailFunc != nil {
		return m.SearchByEmailFunc(ctx, actor, email)
	}
	return nil, nil
}

func (m *MockUserService) List(ctx context.Context, actor authz.Actor, filter *models.UserFilter) (*models.UserListResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, actor, filter)
	}
	return nil, nil
}

func (m *MockUserService) Create(ctx context.Context, actor authz.Actor, req *models.CreateUserRequest) (*models.UserSummary, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, actor, req)
	}
	return nil, nil
}

func (m *MockUserService) UpdateRole(ctx context.Context, actor authz.Actor, userID primitive.ObjectID, role models.Role) (*models.UserSummary, error) {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, actor, userID, role)
	}
	return nil, nil
}

func (m *MockUserService) ChangePassword(ctx context.Context, actor authz.Actor, req *models.ChangePasswordRequest) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, actor, req)
	}
	return nil
}

// MockTeamService is a mock implementation of TeamServicer.
type MockTeamService struct {
	ListTeamsFunc  func(ctx context.Context, actor authz.Actor, page, limit int) (*models.TeamListResponse, error)
	GetTeamFunc    func(ctx context.Context, actor authz.Actor, teamID primitive.ObjectID) (*models.Team, error)
	CreateTeamFunc func(ctx context.Context, actor authz.Actor, req *models.CreateTeamRequest) (*models.Team, error)
	UpdateTeamFunc func(ctx context.Context, actor authz.Actor, teamID primitive.ObjectID, req *models.UpdateTeamRequest) (*models.Team, error)
	DeleteTeamFunc func(ctx context.Context, actor authz.Actor, teamID primitive.ObjectID) error
	AddMemberFunc  func(ctx context.Context, actor authz.Actor, teamID, userID primitive.ObjectID) (*models.Team, error)
}

func (m *MockTeamService) ListTeams(ctx context.Context, actor authz.Actor, page, limit int) (*models.TeamListResponse, error) {
	if m.ListTeamsFunc != nil {
		return m.ListTeamsFunc(ctx, actor, page, limit)
	}
	return nil, nil
}

func (m *MockTeamService) GetTeam(ctx context.Context, actor authz.Actor, teamID primitive.ObjectID) (*models.Team, error) {
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(ctx, actor, teamID)
	}
	return nil, nil
}

func (m *MockTeamService) CreateTeam(ctx context.Context, actor authz.Actor, req *models.CreateTeamRequest) (*models.Team, error) {
	if m.CreateTeamFunc != nil {
		return m.CreateTeamFunc(ctx, actor, req)
	}
	return nil, nil
}

func (m *MockTeamService) UpdateTeam(ctx context.Context, actor authz.Actor, teamID primitive.ObjectID, req *models.UpdateTeamRequest) (*models.Team, error) {
	if m.UpdateTeamFunc != nil {
		return m.UpdateTeamFunc(ctx, actor, teamID, req)
	}
	return nil, nil
}

func (m *MockTeamService) DeleteTeam(ctx context.Context, actor authz.Actor, teamID primitive.ObjectID) error {
	if m.DeleteTeamFunc != nil {
		return m.DeleteTeamFunc(ctx, actor, teamID)
	}
	return nil
}

func (m *MockTeamService) AddMember(ctx context.Context, actor authz.Actor, teamID, userID primitive.ObjectID) (*models.Team, error) {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, actor, teamID, userID)
	}
	return nil, nil
}

// MockTaskService is a mock implementation of TaskServicer.
type MockTaskService struct {
	ListTasksFunc   func(ctx context.Context, actor authz.Actor, filter *models.TaskFilter) (*models.TaskListResponse, error)
	SearchTasksFunc func(ctx context.Context, actor authz.Actor, q string) ([]models.Task, error)
	GetTaskFunc     func(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID) (*models.Task, error)
	CreateTaskFunc  func(ctx context.Context, actor authz.Actor, req *models.CreateTaskRequest) (*models.Task, error)
	UpdateTaskFunc  func(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID, change authz.TaskChange) (*models.Task, error)
	DeleteTaskFunc  func(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID) error
}

func (m *MockTaskService) ListTasks(ctx context.Context, actor authz.Actor, filter *models.TaskFilter) (*models.TaskListResponse, error) {
	if m.ListTasksFunc != nil {
		return m.ListTasksFunc(ctx, actor, filter)
	}
	return nil, nil
}

func (m *MockTaskService) SearchTasks(ctx context.Context, actor authz.Actor, q string) ([]models.Task, error) {
	if m.SearchTasksFunc != nil {
		return m.SearchTasksFunc(ctx, actor, q)
	}
	return nil, nil
}

func (m *MockTaskService) GetTask(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID) (*models.Task, error) {
	if m.GetTaskFunc != nil {
		return m.GetTaskFunc(ctx, actor, taskID)
	}
	return nil, nil
}

func (m *MockTaskService) CreateTask(ctx context.Context, actor authz.Actor, req *models.CreateTaskRequest) (*models.Task, error) {
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, actor, req)
	}
	return nil, nil
}

func (m *MockTaskService) UpdateTask(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID, change authz.TaskChange) (*models.Task, error) {
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, actor, taskID, change)
	}
	return nil, nil
}

func (m *MockTaskService) DeleteTask(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID) error {
	if m.DeleteTaskFunc != nil {
		return m.DeleteTaskFunc(ctx, actor, taskID)
	}
	return nil
}

// MockStatsService is a mock implementation of StatsServicer.
type MockStatsService struct {
	GetStatsFunc func(ctx context.Context, actor authz.Actor) (*models.TaskStats, error)
}

func (m *MockStatsService) GetStats(ctx context.Context, actor authz.Actor) (*models.TaskStats, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx, actor)
	}
	return nil, nil
}
