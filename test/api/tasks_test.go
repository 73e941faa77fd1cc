//go:build api

package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"taskboard/internal/models"
	"taskboard/test/api/testserver"
	"taskboard/test/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type taskWorld struct {
	admin, lead, otherLead, member, outsider testserver.TestUser
	team, otherTeam                          primitive.ObjectID
}

// newTaskWorld seeds two teams: team holds lead, otherLead and member;
// otherTeam holds only outsider.
func newTaskWorld(t *testing.T) taskWorld {
	t.Helper()
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	teamHelper := testserver.NewTeamHelper(testServer)

	w := taskWorld{
		admin:     authHelper.SeedUser(t, models.RoleAdmin),
		lead:      authHelper.SeedUser(t, models.RoleLead),
		otherLead: authHelper.SeedUser(t, models.RoleLead),
		member:    authHelper.SeedUser(t, models.RoleMember),
		outsider:  authHelper.SeedUser(t, models.RoleMember),
	}
	w.team = teamHelper.CreateTeam(t, w.admin.Token, "Platform", w.lead.ID, w.otherLead.ID, w.member.ID)
	w.otherTeam = teamHelper.CreateTeam(t, w.admin.Token, "Billing", w.outsider.ID)
	return w
}

func decodeTask(t *testing.T, body []byte) models.Task {
	t.Helper()

	var resp struct {
		Data models.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Data
}

// TestCreateTask tests POST /api/v1/tasks.
func TestCreateTask(t *testing.T) {
	w := newTaskWorld(t)

	tests := []struct {
		name           string
		token          string
		req            models.CreateTaskRequest
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "lead assigns a member",
			token:          w.lead.Token,
			req:            models.CreateTaskRequest{Title: "Ship it", TeamID: w.team.Hex(), AssignedTo: w.member.ID.Hex()},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "member cannot create",
			token:          w.member.Token,
			req:            models.CreateTaskRequest{Title: "Ship it", TeamID: w.team.Hex()},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "members_cannot_create_tasks",
		},
		{
			name:           "lead cannot assign another lead",
			token:          w.lead.Token,
			req:            models.CreateTaskRequest{Title: "Ship it", TeamID: w.team.Hex(), AssignedTo: w.otherLead.ID.Hex()},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "lead_assign_only_to_members",
		},
		{
			name:           "assignee outside the team",
			token:          w.lead.Token,
			req:            models.CreateTaskRequest{Title: "Ship it", TeamID: w.team.Hex(), AssignedTo: w.outsider.ID.Hex()},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "assignee_must_be_team_member",
		},
		{
			name:           "lead outside the team",
			token:          w.lead.Token,
			req:            models.CreateTaskRequest{Title: "Ship it", TeamID: w.otherTeam.Hex()},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "admin creates anywhere",
			token:          w.admin.Token,
			req:            models.CreateTaskRequest{Title: "Audit", TeamID: w.otherTeam.Hex(), AssignedTo: w.admin.ID.Hex()},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing team",
			token:          w.admin.Token,
			req:            models.CreateTaskRequest{Title: "Nowhere", TeamID: primitive.NewObjectID().Hex()},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/tasks", tt.token, tt.req)

			require.Equal(t, tt.expectedStatus, resp.Code, resp.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, testserver.DecodeResponse(t, resp.Body.Bytes()).Code)
			}
			if tt.expectedStatus == http.StatusCreated {
				task := decodeTask(t, resp.Body.Bytes())
				assert.Equal(t, models.StatusTodo, task.Status)
				assert.Equal(t, models.PriorityMedium, task.Priority)
			}
		})
	}
}

// TestUpdateTask tests PUT /api/v1/tasks/:id.
func TestUpdateTask(t *testing.T) {
	w := newTaskWorld(t)
	taskHelper := testserver.NewTaskHelper(testServer)

	assigned := testserver.GetIDFromResponse(t, taskHelper.CreateTask(t, w.lead.Token,
		models.CreateTaskRequest{Title: "Assigned", TeamID: w.team.Hex(), AssignedTo: w.member.ID.Hex(), DueDate: nil}))
	unassigned := testserver.GetIDFromResponse(t, taskHelper.CreateTask(t, w.lead.Token,
		models.CreateTaskRequest{Title: "Unassigned", TeamID: w.team.Hex()}))

	put := func(token, id, body string) (int, []byte) {
		resp := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, "/api/v1/tasks/"+id, token, json.RawMessage(body))
		return resp.Code, resp.Body.Bytes()
	}

	t.Run("assignee moves the status", func(t *testing.T) {
		code, body := put(w.member.Token, assigned, `{"status":"in_progress"}`)

		require.Equal(t, http.StatusOK, code, string(body))
		assert.Equal(t, models.StatusInProgress, decodeTask(t, body).Status)
	})

	t.Run("assignee cannot edit other fields", func(t *testing.T) {
		code, body := put(w.member.Token, assigned, `{"status":"done","title":"Renamed"}`)

		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "members_status_only", testserver.DecodeResponse(t, body).Code)
	})

	t.Run("member cannot touch unassigned tasks", func(t *testing.T) {
		code, body := put(w.member.Token, unassigned, `{"status":"done"}`)

		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "members_assigned_tasks_only", testserver.DecodeResponse(t, body).Code)
	})

	t.Run("outsider gets no access", func(t *testing.T) {
		code, _ := put(w.outsider.Token, assigned, `{"status":"done"}`)

		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("lead unassigns with null", func(t *testing.T) {
		code, body := put(w.lead.Token, assigned, `{"assignedTo":null,"priority":"high"}`)

		require.Equal(t, http.StatusOK, code, string(body))
		task := decodeTask(t, body)
		assert.Nil(t, task.AssignedTo)
		assert.Equal(t, models.PriorityHigh, task.Priority)
	})

	t.Run("lead cannot move a task to a team they are not in", func(t *testing.T) {
		code, _ := put(w.lead.Token, unassigned, `{"teamId":"`+w.otherTeam.Hex()+`"}`)

		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("missing task", func(t *testing.T) {
		code, _ := put(w.lead.Token, primitive.NewObjectID().Hex(), `{"status":"done"}`)

		assert.Equal(t, http.StatusNotFound, code)
	})
}

// TestDeleteTask tests DELETE /api/v1/tasks/:id.
func TestDeleteTask(t *testing.T) {
	w := newTaskWorld(t)
	taskHelper := testserver.NewTaskHelper(testServer)

	id := testserver.GetIDFromResponse(t, taskHelper.CreateTask(t, w.lead.Token, models.CreateTaskRequest{Title: "Mine", TeamID: w.team.Hex()}))

	resp := testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, "/api/v1/tasks/"+id, w.otherLead.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "only_creator_or_admin_can_delete", testserver.DecodeResponse(t, resp.Body.Bytes()).Code)

	resp = testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, "/api/v1/tasks/"+id, w.lead.Token, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/tasks/"+id, w.lead.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

// TestListAndSearchTasks checks that listings, searches and stats are
// limited to the caller's teams.
func TestListAndSearchTasks(t *testing.T) {
	w := newTaskWorld(t)
	taskHelper := testserver.NewTaskHelper(testServer)

	taskHelper.CreateTask(t, w.lead.Token, models.CreateTaskRequest{Title: "Invoice export", TeamID: w.team.Hex(), Status: models.StatusReview})
	taskHelper.CreateTask(t, w.lead.Token, models.CreateTaskRequest{Title: "Release notes", TeamID: w.team.Hex()})
	taskHelper.CreateTask(t, w.admin.Token, models.CreateTaskRequest{Title: "Invoice audit", TeamID: w.otherTeam.Hex()})

	list := func(token, query string) (int, map[string]interface{}) {
		resp := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/tasks"+query, token, nil)
		r := testserver.DecodeResponse(t, resp.Body.Bytes())
		data, _ := r.Data.(map[string]interface{})
		return resp.Code, data
	}

	t.Run("member sees their teams only", func(t *testing.T) {
		code, data := list(w.member.Token, "")

		require.Equal(t, http.StatusOK, code)
		assert.Len(t, data["items"], 2)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		code, data := list(w.admin.Token, "")

		require.Equal(t, http.StatusOK, code)
		assert.Len(t, data["items"], 3)
	})

	t.Run("status filter", func(t *testing.T) {
		code, data := list(w.lead.Token, "?status=review")

		require.Equal(t, http.StatusOK, code)
		assert.Len(t, data["items"], 1)
	})

	t.Run("filtering by a foreign team is denied", func(t *testing.T) {
		code, _ := list(w.member.Token, "?teamId="+w.otherTeam.Hex())

		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("search is scoped", func(t *testing.T) {
		resp := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/tasks/search?q=invoice", w.member.Token, nil)

		require.Equal(t, http.StatusOK, resp.Code)
		items := testserver.DecodeResponse(t, resp.Body.Bytes()).Data.([]interface{})
		require.Len(t, items, 1)
		assert.Equal(t, "Invoice export", items[0].(map[string]interface{})["title"])
	})

	t.Run("stats", func(t *testing.T) {
		resp := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/stats", w.lead.Token, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		stats := testserver.DecodeResponse(t, resp.Body.Bytes()).Data.(map[string]interface{})
		assert.Equal(t, float64(2), stats["total"])
		assert.NotContains(t, stats, "totalUsers")

		resp = testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/stats", w.admin.Token, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		stats = testserver.DecodeResponse(t, resp.Body.Bytes()).Data.(map[string]interface{})
		assert.Equal(t, float64(3), stats["total"])
		assert.Equal(t, float64(5), stats["totalUsers"])
	})
}
