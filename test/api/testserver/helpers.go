//go:build api

package testserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"taskboard/internal/models"
	"taskboard/pkg/response"
	"taskboard/test/testutil"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPassword is the password given to every seeded account.
const DefaultPassword = "password123"

// TestUser is an account created for a test together with a valid token.
type TestUser struct {
	ID    primitive.ObjectID
	Email string
	Role  models.Role
	Token string
}

// AuthHelper provides authentication helpers for API tests.
type AuthHelper struct {
	server *TestServer
	seq    int
}

// NewAuthHelper creates a new auth helper.
func NewAuthHelper(server *TestServer) *AuthHelper {
	return &AuthHelper{server: server}
}

// Signup registers a user through the API and returns the response data.
func (ah *AuthHelper) Signup(t *testing.T, name, email, password string) map[string]interface{} {
	t.Helper()

	req := models.SignupRequest{Name: name, Email: email, Password: password}

	w := testutil.MakeRequest(t, ah.server.Router, http.MethodPost, "/api/v1/auth/signup", req)
	require.Equal(t, http.StatusCreated, w.Code, "signup should return 201, got: %s", w.Body.String())

	return dataOf(t, w.Body.Bytes())
}

// Login logs in a user and returns the response data.
func (ah *AuthHelper) Login(t *testing.T, email, password string) map[string]interface{} {
	t.Helper()

	req := models.LoginRequest{Email: email, Password: password}

	w := testutil.MakeRequest(t, ah.server.Router, http.MethodPost, "/api/v1/auth/login", req)
	require.Equal(t, http.StatusOK, w.Code, "login should return 200, got: %s", w.Body.String())

	return dataOf(t, w.Body.Bytes())
}

// Token logs in and returns just the token.
func (ah *AuthHelper) Token(t *testing.T, email, password string) string {
	t.Helper()

	token, ok := ah.Login(t, email, password)["token"].(string)
	require.True(t, ok, "token should be a string")
	return token
}

// SeedUser inserts a user with role directly into the database (admins
// cannot be created through the API) and logs them in.
func (ah *AuthHelper) SeedUser(t *testing.T, role models.Role) TestUser {
	t.Helper()

	ah.seq++
	email := fmt.Sprintf("%s%d@example.com", role, ah.seq)

	hash, err := ah.server.Hasher.Hash(DefaultPassword)
	require.NoError(t, err)

	user := &models.User{
		Email:    email,
		Password: hash,
		Name:     fmt.Sprintf("%s %d", role, ah.seq),
		Role:     role,
	}
	require.NoError(t, ah.server.UserRepo.Create(context.Background(), user), "failed to seed user")

	return TestUser{
		ID:    user.ID,
		Email: email,
		Role:  role,
		Token: ah.Token(t, email, DefaultPassword),
	}
}

// TeamHelper provides team-related helpers for API tests.
type TeamHelper struct {
	server *TestServer
}

// NewTeamHelper creates a new team helper.
func NewTeamHelper(server *TestServer) *TeamHelper {
	return &TeamHelper{server: server}
}

// CreateTeam creates a team through the API and returns its id.
func (th *TeamHelper) CreateTeam(t *testing.T, token, name string, members ...primitive.ObjectID) primitive.ObjectID {
	t.Helper()

	req := models.CreateTeamRequest{Name: name}
	for _, m := range members {
		req.MemberIDs = append(req.MemberIDs, m.Hex())
	}

	w := testutil.MakeAuthRequest(t, th.server.Router, http.MethodPost, "/api/v1/teams", token, req)
	require.Equal(t, http.StatusCreated, w.Code, "create team should return 201, got: %s", w.Body.String())

	return GetObjectIDFromResponse(t, dataOf(t, w.Body.Bytes()))
}

// TaskHelper provides task-related helpers for API tests.
type TaskHelper struct {
	server *TestServer
}

// NewTaskHelper creates a new task helper.
func NewTaskHelper(server *TestServer) *TaskHelper {
	return &TaskHelper{server: server}
}

// CreateTask creates a task through the API and returns the response data.
func (th *TaskHelper) CreateTask(t *testing.T, token string, req models.CreateTaskRequest) map[string]interface{} {
	t.Helper()

	w := testutil.MakeAuthRequest(t, th.server.Router, http.MethodPost, "/api/v1/tasks", token, req)
	require.Equal(t, http.StatusCreated, w.Code, "create task should return 201, got: %s", w.Body.String())

	return dataOf(t, w.Body.Bytes())
}

// CountTasks returns how many tasks a team owns, read straight from MongoDB.
func (th *TaskHelper) CountTasks(t *testing.T, teamID primitive.ObjectID) int64 {
	t.Helper()

	n, err := th.server.Stores.DB.Collection("tasks").CountDocuments(context.Background(), map[string]interface{}{"teamId": teamID})
	require.NoError(t, err)
	return n
}

// DecodeResponse parses a JSON body into the standard envelope.
func DecodeResponse(t *testing.T, body []byte) response.Response {
	t.Helper()

	var resp response.Response
	require.NoError(t, json.Unmarshal(body, &resp), "response should be valid JSON")
	return resp
}

func dataOf(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()

	resp := DecodeResponse(t, body)
	require.True(t, resp.Success, "response should be successful")

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "response data should be a map")
	return data
}

// GetIDFromResponse extracts the ID from response data.
// It handles both direct ID fields and nested user objects (for auth responses).
func GetIDFromResponse(t *testing.T, data map[string]interface{}) string {
	t.Helper()

	if id, ok := data["id"].(string); ok {
		return id
	}

	if user, ok := data["user"].(map[string]interface{}); ok {
		if id, ok := user["id"].(string); ok {
			return id
		}
	}

	t.Fatal("id should be a string in response data (checked: id, user.id)")
	return ""
}

// GetObjectIDFromResponse extracts and parses the ID as ObjectID.
func GetObjectIDFromResponse(t *testing.T, data map[string]interface{}) primitive.ObjectID {
	t.Helper()

	oid, err := primitive.ObjectIDFromHex(GetIDFromResponse(t, data))
	require.NoError(t, err, "failed to parse ObjectID")
	return oid
}
