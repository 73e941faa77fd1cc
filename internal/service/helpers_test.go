package service

import (
	"testing"

	"taskboard/internal/authz"
	"taskboard/internal/models"
	repomocks "taskboard/internal/repository/mocks"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

// testRepos bundles the repository mocks and an engine wired to them.
type testRepos struct {
	users  *repomocks.MockUserRepository
	teams  *repomocks.MockTeamRepository
	tasks  *repomocks.MockTaskRepository
	engine *authz.Engine
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	ctrl := gomock.NewController(t)

	r := &testRepos{
		users: repomocks.NewMockUserRepository(ctrl),
		teams: repomocks.NewMockTeamRepository(ctrl),
		tasks: repomocks.NewMockTaskRepository(ctrl),
	}
	r.engine = authz.NewEngine(r.users, r.teams, r.tasks)
	return r
}

func nullLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

func actorOf(u *models.User) authz.Actor {
	return authz.Actor{ID: u.ID, Role: u.Role}
}

func ids(ids ...primitive.ObjectID) []primitive.ObjectID {
	return ids
}
