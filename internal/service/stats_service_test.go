package service

import (
	"context"
	"testing"

	"taskboard/internal/models"
	"taskboard/test/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func TestStatsService_GetStats(t *testing.T) {
	t.Run("admins get global counts and the user total", func(t *testing.T) {
		repos := newTestRepos(t)
		svc := NewStatsService(repos.tasks, repos.users, repos.engine, nil)
		admin := fixtures.NewUser().AsAdmin().BuildPtr()

		stats := models.NewTaskStats()
		stats.Total = 7
		repos.tasks.EXPECT().Stats(gomock.Any(), nil).Return(stats, nil)
		repos.users.EXPECT().Count(gomock.Any()).Return(int64(12), nil)

		got, err := svc.GetStats(context.Background(), actorOf(admin))

		require.NoError(t, err)
		assert.Equal(t, int64(7), got.Total)
		require.NotNil(t, got.TotalUsers)
		assert.Equal(t, int64(12), *got.TotalUsers)
	})

	t.Run("others are scoped and get no user total", func(t *testing.T) {
		repos := newTestRepos(t)
		svc := NewStatsService(repos.tasks, repos.users, repos.engine, nil)
		lead := fixtures.NewUser().AsLead().BuildPtr()
		teamID := primitive.NewObjectID()

		repos.teams.EXPECT().FindIDsByMember(gomock.Any(), lead.ID).Return(ids(teamID), nil)
		repos.tasks.EXPECT().Stats(gomock.Any(), ids(teamID)).Return(models.NewTaskStats(), nil)

		got, err := svc.GetStats(context.Background(), actorOf(lead))

		require.NoError(t, err)
		assert.Nil(t, got.TotalUsers)
	})

	t.Run("propagates query errors", func(t *testing.T) {
		repos := newTestRepos(t)
		svc := NewStatsService(repos.tasks, repos.users, repos.engine, nil)
		admin := fixtures.NewUser().AsAdmin().BuildPtr()

		repos.tasks.EXPECT().Stats(gomock.Any(), nil).Return(models.NewTaskStats(), nil)
		repos.users.EXPECT().Count(gomock.Any()).Return(int64(0), assert.AnError)

		_, err := svc.GetStats(context.Background(), actorOf(admin))
		assert.ErrorIs(t, err, assert.AnError)
	})
}
