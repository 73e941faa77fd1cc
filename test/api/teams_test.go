//go:build api

package api

import (
	"net/http"
	"testing"
	"time"

	"taskboard/internal/models"
	"taskboard/test/api/testserver"
	"taskboard/test/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestCreateTeam tests POST /api/v1/teams.
func TestCreateTeam(t *testing.T) {
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	admin := authHelper.SeedUser(t, models.RoleAdmin)
	lead := authHelper.SeedUser(t, models.RoleLead)

	t.Run("admin creates a team and joins it", func(t *testing.T) {
		req := models.CreateTeamRequest{Name: "Platform", MemberIDs: []string{lead.ID.Hex(), lead.ID.Hex()}}

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/teams", admin.Token, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := testserver.DecodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})
		assert.ElementsMatch(t, []interface{}{lead.ID.Hex(), admin.ID.Hex()}, data["members"])
		assert.Equal(t, admin.ID.Hex(), data["createdBy"])
	})

	t.Run("unknown member ids", func(t *testing.T) {
		req := models.CreateTeamRequest{Name: "Ghosts", MemberIDs: []string{primitive.NewObjectID().Hex()}}

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/teams", admin.Token, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "unknown_team_members", testserver.DecodeResponse(t, w.Body.Bytes()).Code)
	})

	t.Run("lead cannot create teams", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/teams", lead.Token, models.CreateTeamRequest{Name: "Mine"})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

// TestTeamVisibility tests GET /api/v1/teams and GET /api/v1/teams/:id.
func TestTeamVisibility(t *testing.T) {
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	teamHelper := testserver.NewTeamHelper(testServer)
	admin := authHelper.SeedUser(t, models.RoleAdmin)
	member := authHelper.SeedUser(t, models.RoleMember)

	mine := teamHelper.CreateTeam(t, admin.Token, "Mine", member.ID)
	other := teamHelper.CreateTeam(t, admin.Token, "Other")

	t.Run("member sees only their teams", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/teams", member.Token, nil)

		require.Equal(t, http.StatusOK, w.Code)
		items := testserver.DecodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})["items"].([]interface{})
		require.Len(t, items, 1)
		assert.Equal(t, mine.Hex(), items[0].(map[string]interface{})["id"])
	})

	t.Run("admin sees every team", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/teams", admin.Token, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, testserver.DecodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})["items"], 2)
	})

	t.Run("member cannot open another team", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/teams/"+other.Hex(), member.Token, nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing team", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/teams/"+primitive.NewObjectID().Hex(), admin.Token, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("members may rename their team", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, "/api/v1/teams/"+mine.Hex(), member.Token,
			map[string]string{"name": "Renamed"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Renamed", testserver.DecodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})["name"])
	})
}

// TestAddMember tests POST /api/v1/teams/:id/members.
func TestAddMember(t *testing.T) {
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	admin := authHelper.SeedUser(t, models.RoleAdmin)
	lead := authHelper.SeedUser(t, models.RoleLead)
	member := authHelper.SeedUser(t, models.RoleMember)
	outsider := authHelper.SeedUser(t, models.RoleLead)

	teamID := testserver.NewTeamHelper(testServer).CreateTeam(t, admin.Token, "Platform", lead.ID)
	path := "/api/v1/teams/" + teamID.Hex() + "/members"

	t.Run("lead in the team adds a member", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, path, lead.Token, models.AddMemberRequest{UserID: member.ID.Hex()})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		members := testserver.DecodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})["members"]
		assert.Contains(t, members, member.ID.Hex())
	})

	t.Run("already a member", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, path, lead.Token, models.AddMemberRequest{UserID: member.ID.Hex()})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("lead outside the team", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, path, outsider.Token, models.AddMemberRequest{UserID: outsider.ID.Hex()})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, path, admin.Token, models.AddMemberRequest{UserID: primitive.NewObjectID().Hex()})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestDeleteTeam checks that deleting a team removes its tasks through the
// cleanup workers.
func TestDeleteTeam(t *testing.T) {
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	taskHelper := testserver.NewTaskHelper(testServer)
	admin := authHelper.SeedUser(t, models.RoleAdmin)
	lead := authHelper.SeedUser(t, models.RoleLead)

	teamID := testserver.NewTeamHelper(testServer).CreateTeam(t, admin.Token, "Doomed", lead.ID)
	for _, title := range []string{"one", "two", "three"} {
		taskHelper.CreateTask(t, lead.Token, models.CreateTaskRequest{Title: title, TeamID: teamID.Hex()})
	}
	require.Equal(t, int64(3), taskHelper.CountTasks(t, teamID))

	w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, "/api/v1/teams/"+teamID.Hex(), lead.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "lead did not create the team")

	w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, "/api/v1/teams/"+teamID.Hex(), admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/teams/"+teamID.Hex(), admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Eventually(t, func() bool {
		return taskHelper.CountTasks(t, teamID) == 0
	}, 5*time.Second, 50*time.Millisecond)
}
