package repository

import (
	"context"
	"testing"
	"time"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/test/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTaskRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	tdb := startMongo(t)

	repo := NewTaskRepository(tdb.db)
	teams := NewTeamRepository(tdb.db)
	ctx := context.Background()

	teamA := primitive.NewObjectID()
	teamB := primitive.NewObjectID()

	seed := func(t *testing.T, tasks ...*models.Task) {
		t.Helper()
		tdb.reset(t, "tasks")
		for _, task := range tasks {
			require.NoError(t, repo.Create(ctx, task))
		}
	}

	t.Run("Create and FindByID", func(t *testing.T) {
		task := fixtures.NewTask().WithTeamID(teamA).BuildPtr()
		seed(t, task)

		found, err := repo.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.Title, found.Title)
		assert.Nil(t, found.AssignedTo)

		_, err = repo.FindByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})

	t.Run("Find applies team scope and filters", func(t *testing.T) {
		user := primitive.NewObjectID()
		seed(t,
			fixtures.NewTask().WithTitle("a1").WithTeamID(teamA).WithStatus(models.StatusDone).BuildPtr(),
			fixtures.NewTask().WithTitle("a2").WithTeamID(teamA).WithAssignedTo(user).BuildPtr(),
			fixtures.NewTask().WithTitle("b1").WithTeamID(teamB).WithPriority(models.PriorityHigh).BuildPtr(),
		)

		tasks, total, err := repo.Find(ctx, TaskQuery{TeamIDs: []primitive.ObjectID{teamA}, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, tasks, 2)

		tasks, total, err = repo.Find(ctx, TaskQuery{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, tasks, 3)

		tasks, total, err = repo.Find(ctx, TaskQuery{TeamIDs: []primitive.ObjectID{}, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)

		tasks, _, err = repo.Find(ctx, TaskQuery{Status: models.StatusDone, Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "a1", tasks[0].Title)

		tasks, _, err = repo.Find(ctx, TaskQuery{AssignedTo: &user, Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "a2", tasks[0].Title)

		tasks, _, err = repo.Find(ctx, TaskQuery{
			TeamIDs:  []primitive.ObjectID{teamA},
			Priority: models.PriorityHigh,
			Page:     1,
			Limit:    10,
		})
		require.NoError(t, err)
		assert.Empty(t, tasks)

		tasks, _, err = repo.Find(ctx, TaskQuery{Page: 1, Limit: 10, SortBy: "title", SortOrder: "asc"})
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, []string{"a1", "a2", "b1"}, []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})
	})

	t.Run("Find filters by due date range", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		seed(t,
			fixtures.NewTask().WithTitle("soon").WithDueDate(now.Add(24*time.Hour)).BuildPtr(),
			fixtures.NewTask().WithTitle("later").WithDueDate(now.Add(30*24*time.Hour)).BuildPtr(),
			fixtures.NewTask().WithTitle("none").BuildPtr(),
		)

		before := now.Add(7 * 24 * time.Hour)
		tasks, _, err := repo.Find(ctx, TaskQuery{DueBefore: &before, Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "soon", tasks[0].Title)

		tasks, _, err = repo.Find(ctx, TaskQuery{DueAfter: &before, Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "later", tasks[0].Title)
	})

	t.Run("Search matches title or description within scope", func(t *testing.T) {
		hit := fixtures.NewTask().WithTitle("Fix login bug").WithTeamID(teamA).BuildPtr()
		descHit := fixtures.NewTask().WithTitle("Other").WithTeamID(teamA).BuildPtr()
		descHit.Description = "The LOGIN form is slow"
		outOfScope := fixtures.NewTask().WithTitle("login page").WithTeamID(teamB).BuildPtr()
		seed(t, hit, descHit, outOfScope, fixtures.NewTask().WithTeamID(teamA).BuildPtr())

		tasks, err := repo.Search(ctx, []primitive.ObjectID{teamA}, "login")
		require.NoError(t, err)
		assert.Len(t, tasks, 2)

		tasks, err = repo.Search(ctx, nil, "login")
		require.NoError(t, err)
		assert.Len(t, tasks, 3)

		tasks, err = repo.Search(ctx, nil, "log.n")
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("Update sets and clears optional fields", func(t *testing.T) {
		assignee := primitive.NewObjectID()
		task := fixtures.NewTask().WithAssignedTo(assignee).WithDueDate(time.Now()).BuildPtr()
		seed(t, task)

		task.Status = models.StatusReview
		task.AssignedTo = nil
		task.DueDate = nil
		require.NoError(t, repo.Update(ctx, task))

		found, err := repo.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusReview, found.Status)
		assert.Nil(t, found.AssignedTo)
		assert.Nil(t, found.DueDate)

		missing := fixtures.NewTask().BuildPtr()
		assert.ErrorIs(t, repo.Update(ctx, missing), apperrors.ErrTaskNotFound)
	})

	t.Run("Delete and DeleteByTeamID", func(t *testing.T) {
		one := fixtures.NewTask().WithTeamID(teamB).BuildPtr()
		seed(t,
			one,
			fixtures.NewTask().WithTeamID(teamA).BuildPtr(),
			fixtures.NewTask().WithTeamID(teamA).BuildPtr(),
		)

		require.NoError(t, repo.Delete(ctx, one.ID))
		assert.ErrorIs(t, repo.Delete(ctx, one.ID), apperrors.ErrTaskNotFound)

		n, err := repo.DeleteByTeamID(ctx, teamA)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = repo.DeleteByTeamID(ctx, teamA)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Stats counts buckets and names teams", func(t *testing.T) {
		tdb.reset(t, "teams")
		named := fixtures.NewTeam().WithName("Named").BuildPtr()
		require.NoError(t, teams.Create(ctx, named))

		seed(t,
			fixtures.NewTask().WithTeamID(named.ID).WithStatus(models.StatusDone).BuildPtr(),
			fixtures.NewTask().WithTeamID(named.ID).WithPriority(models.PriorityHigh).BuildPtr(),
			fixtures.NewTask().WithTeamID(teamB).BuildPtr(),
		)

		stats, err := repo.Stats(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Total)
		assert.Equal(t, int64(1), stats.ByStatus[models.StatusDone])
		assert.Equal(t, int64(2), stats.ByStatus[models.StatusTodo])
		assert.Equal(t, int64(0), stats.ByStatus[models.StatusReview])
		assert.Equal(t, int64(1), stats.ByPriority[models.PriorityHigh])
		require.Len(t, stats.ByTeam, 2)
		assert.Equal(t, named.ID, stats.ByTeam[0].TeamID)
		assert.Equal(t, "Named", stats.ByTeam[0].TeamName)
		assert.Equal(t, int64(2), stats.ByTeam[0].Count)
		assert.Equal(t, "", stats.ByTeam[1].TeamName)

		stats, err = repo.Stats(ctx, []primitive.ObjectID{teamB})
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Total)

		stats, err = repo.Stats(ctx, []primitive.ObjectID{})
		require.NoError(t, err)
		assert.Zero(t, stats.Total)
		assert.Empty(t, stats.ByTeam)
		assert.Len(t, stats.ByStatus, len(models.TaskStatuses))
	})
}
