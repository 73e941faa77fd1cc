package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/authz"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/service"
	"taskboard/internal/service/mocks"
	"taskboard/pkg/response"
	"taskboard/test/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserHandler_SearchByEmail(t *testing.T) {
	lead := testutil.NewActor(models.RoleLead)

	tests := []struct {
		name           string
		query          string
		mockSetup      func(*mocks.MockUserService)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:  "found",
			query: "?email=a@example.com",
			mockSetup: func(m *mocks.MockUserService) {
				m.SearchByEmailFunc = func(ctx context.Context, actor authz.Actor, email string) (*models.UserSummary, error) {
					return &models.UserSummary{ID: primitive.NewObjectID(), Email: email}, nil
				}
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp response.Response
				testutil.ParseResponse(t, w, &resp)
				user := resp.Data.(map[string]interface{})["user"].(map[string]interface{})
				assert.Equal(t, "a@example.com", user["email"])
			},
		},
		{
			name:  "no match returns a null user",
			query: "?email=none@example.com",
			mockSetup: func(m *mocks.MockUserService) {
				m.SearchByEmailFunc = func(ctx context.Context, actor authz.Actor, email string) (*models.UserSummary, error) {
					return nil, nil
				}
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"success":true,"data":{"user":null}}`, w.Body.String())
			},
		},
		{
			name:           "missing email",
			query:          "",
			mockSetup:      func(m *mocks.MockUserService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "members are denied",
			query: "?email=a@example.com",
			mockSetup: func(m *mocks.MockUserService) {
				m.SearchByEmailFunc = func(ctx context.Context, actor authz.Actor, email string) (*models.UserSummary, error) {
					return nil, service.NewDeniedError(authz.ActionUserList, authz.ReasonDirectoryRestricted)
				}
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mocks.MockUserService{}
			tt.mockSetup(mockService)

			router := testutil.SetupRouter()
			router.GET("/users/search", testutil.WithActor(lead), NewUserHandler(mockService, nil).SearchByEmail)

			w := testutil.MakeRequest(t, router, http.MethodGet, "/users/search"+tt.query, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestUserHandler_ListUsers(t *testing.T) {
	admin := testutil.NewActor(models.RoleAdmin)

	t.Run("binds the query", func(t *testing.T) {
		var got *models.UserFilter
		mockService := &mocks.MockUserService{
			ListFunc: func(ctx context.Context, actor authz.Actor, filter *models.UserFilter) (*models.UserListResponse, error) {
				got = filter
				return &models.UserListResponse{Items: []models.UserSummary{}, Pagination: models.NewPagination(2, 5, 0)}, nil
			},
		}

		router := testutil.SetupRouter()
		router.GET("/users", testutil.WithActor(admin), NewUserHandler(mockService, nil).ListUsers)

		w := testutil.MakeRequest(t, router, http.MethodGet, "/users?search=jo&role=member&page=2&limit=5", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got)
		assert.Equal(t, "jo", got.Search)
		assert.Equal(t, models.RoleMember, got.Role)
		assert.Equal(t, 2, got.Page)
		assert.Equal(t, 5, got.Limit)
	})

	t.Run("short search is a bad request", func(t *testing.T) {
		mockService := &mocks.MockUserService{
			ListFunc: func(ctx context.Context, actor authz.Actor, filter *models.UserFilter) (*models.UserListResponse, error) {
				return nil, service.NewDeniedError(authz.ActionUserList, authz.ReasonSearchTooShort)
			},
		}

		router := testutil.SetupRouter()
		router.GET("/users", testutil.WithActor(admin), NewUserHandler(mockService, nil).ListUsers)

		w := testutil.MakeRequest(t, router, http.MethodGet, "/users?search=j", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp response.Response
		testutil.ParseResponse(t, w, &resp)
		assert.Equal(t, "search_too_short", resp.Code)
	})
}

func TestUserHandler_CreateUser(t *testing.T) {
	admin := testutil.NewActor(models.RoleAdmin)

	tests := []struct {
		name           string
		body           interface{}
		mockSetup      func(*mocks.MockUserService)
		expectedStatus int
	}{
		{
			name: "created",
			body: models.CreateUserRequest{Email: "n@example.com", Password: "secret123", Name: "New", Role: models.RoleLead},
			mockSetup: func(m *mocks.MockUserService) {
				m.CreateFunc = func(ctx context.Context, actor authz.Actor, req *models.CreateUserRequest) (*models.UserSummary, error) {
					return &models.UserSummary{ID: primitive.NewObjectID(), Email: req.Email, Role: req.Role}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unknown role fails validation",
			body:           map[string]string{"email": "n@example.com", "password": "secret123", "name": "New", "role": "owner"},
			mockSetup:      func(m *mocks.MockUserService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "capitalized role fails validation",
			body:           map[string]string{"email": "n@example.com", "password": "secret123", "name": "New", "role": "Lead"},
			mockSetup:      func(m *mocks.MockUserService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "admin role is rejected",
			body: models.CreateUserRequest{Email: "n@example.com", Password: "secret123", Name: "New", Role: models.RoleAdmin},
			mockSetup: func(m *mocks.MockUserService) {
				m.CreateFunc = func(ctx context.Context, actor authz.Actor, req *models.CreateUserRequest) (*models.UserSummary, error) {
					return nil, service.NewDeniedError(authz.ActionUserCreate, authz.ReasonCannotCreateAdmin)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: models.CreateUserRequest{Email: "n@example.com", Password: "secret123", Name: "New"},
			mockSetup: func(m *mocks.MockUserService) {
				m.CreateFunc = func(ctx context.Context, actor authz.Actor, req *models.CreateUserRequest) (*models.UserSummary, error) {
					return nil, apperrors.ErrUserAlreadyExists
				}
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mocks.MockUserService{}
			tt.mockSetup(mockService)

			router := testutil.SetupRouter()
			router.POST("/users", testutil.WithActor(admin), NewUserHandler(mockService, nil).CreateUser)

			w := testutil.MakeRequest(t, router, http.MethodPost, "/users", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestUserHandler_UpdateRole(t *testing.T) {
	admin := testutil.NewActor(models.RoleAdmin)
	target := primitive.NewObjectID()

	tests := []struct {
		name           string
		path           string
		body           interface{}
		mockSetup      func(*mocks.MockUserService)
		expectedStatus int
	}{
		{
			name: "updated",
			path: "/users/" + target.Hex() + "/role",
			body: models.UpdateRoleRequest{Role: models.RoleLead},
			mockSetup: func(m *mocks.MockUserService) {
				m.UpdateRoleFunc = func(ctx context.Context, actor authz.Actor, userID primitive.ObjectID, role models.Role) (*models.UserSummary, error) {
					assert.Equal(t, target, userID)
					return &models.UserSummary{ID: userID, Role: role}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed id",
			path:           "/users/nope/role",
			body:           models.UpdateRoleRequest{Role: models.RoleLead},
			mockSetup:      func(m *mocks.MockUserService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "capitalized role fails validation",
			path:           "/users/" + target.Hex() + "/role",
			body:           map[string]string{"role": "Lead"},
			mockSetup:      func(m *mocks.MockUserService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "own role",
			path: "/users/" + admin.ID.Hex() + "/role",
			body: models.UpdateRoleRequest{Role: models.RoleMember},
			mockSetup: func(m *mocks.MockUserService) {
				m.UpdateRoleFunc = func(ctx context.Context, actor authz.Actor, userID primitive.ObjectID, role models.Role) (*models.UserSummary, error) {
					return nil, service.NewDeniedError(authz.ActionUserUpdateRole, authz.ReasonCannotChangeOwnRole)
				}
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "missing user",
			path: "/users/" + target.Hex() + "/role",
			body: models.UpdateRoleRequest{Role: models.RoleLead},
			mockSetup: func(m *mocks.MockUserService) {
				m.UpdateRoleFunc = func(ctx context.Context, actor authz.Actor, userID primitive.ObjectID, role models.Role) (*models.UserSummary, error) {
					return nil, apperrors.ErrUserReferenceInvalid
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mocks.MockUserService{}
			tt.mockSetup(mockService)

			router := testutil.SetupRouter()
			router.PUT("/users/:id/role", testutil.WithActor(admin), NewUserHandler(mockService, nil).UpdateRole)

			w := testutil.MakeRequest(t, router, http.MethodPut, tt.path, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestUserHandler_ChangePassword(t *testing.T) {
	member := testutil.NewActor(models.RoleMember)

	t.Run("wrong current password", func(t *testing.T) {
		mockService := &mocks.MockUserService{
			ChangePasswordFunc: func(ctx context.Context, actor authz.Actor, req *models.ChangePasswordRequest) error {
				return apperrors.ErrIncorrectPassword
			},
		}

		router := testutil.SetupRouter()
		router.PUT("/users/me/password", testutil.WithActor(member), NewUserHandler(mockService, nil).ChangePassword)

		w := testutil.MakeRequest(t, router, http.MethodPut, "/users/me/password", models.ChangePasswordRequest{
			CurrentPassword: "old",
			NewPassword:     "newsecret",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("short new password fails validation", func(t *testing.T) {
		router := testutil.SetupRouter()
		router.PUT("/users/me/password", testutil.WithActor(member), NewUserHandler(&mocks.MockUserService{}, nil).ChangePassword)

		w := testutil.MakeRequest(t, router, http.MethodPut, "/users/me/password", models.ChangePasswordRequest{
			CurrentPassword: "old",
			NewPassword:     "123",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
