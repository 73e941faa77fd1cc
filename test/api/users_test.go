//go:build api

package api

import (
	"net/http"
	"testing"

	"taskboard/internal/models"
	"taskboard/test/api/testserver"
	"taskboard/test/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserDirectory tests GET /api/v1/users and GET /api/v1/users/search.
func TestUserDirectory(t *testing.T) {
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	admin := authHelper.SeedUser(t, models.RoleAdmin)
	lead := authHelper.SeedUser(t, models.RoleLead)
	member := authHelper.SeedUser(t, models.RoleMember)

	t.Run("admin lists everyone", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users", admin.Token, nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := testserver.DecodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})
		assert.Len(t, data["items"], 3)
		assert.Equal(t, float64(3), data["pagination"].(map[string]interface{})["totalItems"])
	})

	t.Run("lead must search", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users", lead.Token, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "search_required", testserver.DecodeResponse(t, w.Body.Bytes()).Code)
	})

	t.Run("lead searches members", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users?search=member&role=member", lead.Token, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		items := testserver.DecodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})["items"].([]interface{})
		require.Len(t, items, 1)
		assert.Equal(t, member.ID.Hex(), items[0].(map[string]interface{})["id"])
	})

	t.Run("lead cannot filter by lead", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users?search=le&role=lead", lead.Token, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("member is denied", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users?search=adm", member.Token, nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "directory_restricted", testserver.DecodeResponse(t, w.Body.Bytes()).Code)
	})

	t.Run("exact email lookup", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users/search?email="+member.Email, lead.Token, nil)

		require.Equal(t, http.StatusOK, w.Code)
		user := testserver.DecodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})["user"].(map[string]interface{})
		assert.Equal(t, member.ID.Hex(), user["id"])

		w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users/search?email=ghost@example.com", lead.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":{"user":null}}`, w.Body.String())
	})
}

// TestUserManagement tests POST /api/v1/users and PUT /api/v1/users/:id/role.
func TestUserManagement(t *testing.T) {
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	admin := authHelper.SeedUser(t, models.RoleAdmin)
	lead := authHelper.SeedUser(t, models.RoleLead)

	t.Run("admin creates a lead", func(t *testing.T) {
		req := models.CreateUserRequest{Email: "new.lead@example.com", Password: "password123", Name: "New Lead", Role: models.RoleLead}

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/users", admin.Token, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := testserver.DecodeResponse(t, w.Body.Bytes()).Data.(map[string]interface{})
		assert.Equal(t, "lead", data["role"])

		authHelper.Login(t, "new.lead@example.com", "password123")
	})

	t.Run("admin cannot create an admin", func(t *testing.T) {
		req := models.CreateUserRequest{Email: "boss@example.com", Password: "password123", Name: "Boss", Role: models.RoleAdmin}

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/users", admin.Token, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lead cannot create users", func(t *testing.T) {
		req := models.CreateUserRequest{Email: "x@example.com", Password: "password123", Name: "X Y"}

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/users", lead.Token, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin cannot change own role", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, "/api/v1/users/"+admin.ID.Hex()+"/role", admin.Token,
			models.UpdateRoleRequest{Role: models.RoleMember})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "cannot_change_own_role", testserver.DecodeResponse(t, w.Body.Bytes()).Code)
	})

	t.Run("lead cannot change roles", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, "/api/v1/users/"+admin.ID.Hex()+"/role", lead.Token,
			models.UpdateRoleRequest{Role: models.RoleMember})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

// TestChangePassword tests PUT /api/v1/users/me/password.
func TestChangePassword(t *testing.T) {
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	member := authHelper.SeedUser(t, models.RoleMember)

	w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, "/api/v1/users/me/password", member.Token,
		models.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newsecret456"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, "/api/v1/users/me/password", member.Token,
		models.ChangePasswordRequest{CurrentPassword: testserver.DefaultPassword, NewPassword: "newsecret456"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	authHelper.Login(t, member.Email, "newsecret456")
}
