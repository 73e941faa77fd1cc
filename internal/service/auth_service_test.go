package service

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/cache"
	cachemocks "taskboard/internal/cache/mocks"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	repomocks "taskboard/internal/repository/mocks"
	"taskboard/pkg/auth"
	authmocks "taskboard/pkg/auth/mocks"
	"taskboard/test/fixtures"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

type authDeps struct {
	users    *repomocks.MockUserRepository
	sessions *cachemocks.MockSessionStore
	tokens   *authmocks.MockTokenManager
	hasher   *authmocks.MockPasswordHasher
}

func newAuthService(t *testing.T, withSessions bool) (*AuthService, *authDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := &authDeps{
		users:    repomocks.NewMockUserRepository(ctrl),
		sessions: cachemocks.NewMockSessionStore(ctrl),
		tokens:   authmocks.NewMockTokenManager(ctrl),
		hasher:   authmocks.NewMockPasswordHasher(ctrl),
	}
	log, _ := nullLogger()

	cfg := AuthServiceConfig{
		UserRepo:   deps.users,
		JWTManager: deps.tokens,
		Hasher:     deps.hasher,
		SessionTTL: time.Minute,
		Logger:     log,
	}
	if withSessions {
		cfg.Sessions = deps.sessions
	}
	return NewAuthService(cfg), deps
}

func TestAuthService_Signup(t *testing.T) {
	req := &models.SignupRequest{Email: "new@example.com", Password: "secret123", Name: "New User"}

	t.Run("creates a member and returns a token", func(t *testing.T) {
		svc, deps := newAuthService(t, true)
		var created *models.User

		deps.hasher.EXPECT().Hash("secret123").Return("hashed", nil)
		deps.users.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *models.User) error {
				u.ID = primitive.NewObjectID()
				created = u
				return nil
			})
		deps.tokens.EXPECT().
			GenerateToken(gomock.Any(), "member", 0).
			Return("signed-token", nil)

		resp, err := svc.Signup(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "signed-token", resp.Token)
		assert.Equal(t, models.RoleMember, created.Role)
		assert.Equal(t, "hashed", created.Password)
		assert.Equal(t, req.Email, resp.User.Email)
	})

	t.Run("returns conflict for an existing email", func(t *testing.T) {
		svc, deps := newAuthService(t, true)

		deps.hasher.EXPECT().Hash(gomock.Any()).Return("hashed", nil)
		deps.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apperrors.ErrUserAlreadyExists)

		resp, err := svc.Signup(context.Background(), req)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	user := fixtures.NewUser().WithEmail("lead@example.com").AsLead().WithTokenVersion(3).BuildPtr()
	req := &models.LoginRequest{Email: "lead@example.com", Password: "password123"}

	t.Run("issues a token carrying the token version", func(t *testing.T) {
		svc, deps := newAuthService(t, true)

		deps.users.EXPECT().FindByEmail(gomock.Any(), req.Email).Return(user, nil)
		deps.hasher.EXPECT().Compare(req.Password, user.Password).Return(nil)
		deps.tokens.EXPECT().GenerateToken(user.ID.Hex(), "lead", 3).Return("tok", nil)

		resp, err := svc.Login(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "tok", resp.Token)
		assert.Equal(t, user.ID, resp.User.ID)
	})

	t.Run("unknown email is invalid credentials", func(t *testing.T) {
		svc, deps := newAuthService(t, true)

		deps.users.EXPECT().FindByEmail(gomock.Any(), req.Email).Return(nil, apperrors.ErrUserNotFound)

		_, err := svc.Login(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("wrong password is invalid credentials", func(t *testing.T) {
		svc, deps := newAuthService(t, true)

		deps.users.EXPECT().FindByEmail(gomock.Any(), req.Email).Return(user, nil)
		deps.hasher.EXPECT().Compare(req.Password, user.Password).Return(assert.AnError)

		_, err := svc.Login(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestAuthService_Logout(t *testing.T) {
	svc, deps := newAuthService(t, true)
	user := fixtures.NewUser().WithTokenVersion(1).BuildPtr()

	deps.users.EXPECT().IncrementTokenVersion(gomock.Any(), user.ID).Return(1, nil)
	deps.users.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
	deps.sessions.EXPECT().Put(gomock.Any(), user.ID.Hex(), cache.SessionStateOf(user), time.Minute).Return(nil)

	require.NoError(t, svc.Logout(context.Background(), actorOf(user)))
}

func TestAuthService_Authenticate(t *testing.T) {
	user := fixtures.NewUser().WithTokenVersion(2).BuildPtr()
	claims := &auth.Claims{UserID: user.ID.Hex(), Role: "admin", TokenVersion: 2}

	t.Run("cached state supplies the role", func(t *testing.T) {
		svc, deps := newAuthService(t, true)

		deps.sessions.EXPECT().
			Get(gomock.Any(), user.ID.Hex()).
			Return(&cache.SessionState{Role: models.RoleMember, TokenVersion: 2}, nil)

		actor, err := svc.Authenticate(context.Background(), claims)

		require.NoError(t, err)
		assert.Equal(t, user.ID, actor.ID)
		assert.Equal(t, models.RoleMember, actor.Role)
	})

	t.Run("stale token version is revoked", func(t *testing.T) {
		svc, deps := newAuthService(t, true)

		deps.sessions.EXPECT().
			Get(gomock.Any(), user.ID.Hex()).
			Return(&cache.SessionState{Role: models.RoleMember, TokenVersion: 3}, nil)

		_, err := svc.Authenticate(context.Background(), claims)
		assert.ErrorIs(t, err, apperrors.ErrSessionRevoked)
	})

	t.Run("cache miss loads and stores the user", func(t *testing.T) {
		svc, deps := newAuthService(t, true)

		deps.sessions.EXPECT().Get(gomock.Any(), user.ID.Hex()).Return(nil, nil)
		deps.users.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
		deps.sessions.EXPECT().Put(gomock.Any(), user.ID.Hex(), cache.SessionStateOf(user), time.Minute).Return(nil)

		actor, err := svc.Authenticate(context.Background(), claims)

		require.NoError(t, err)
		assert.Equal(t, models.RoleMember, actor.Role)
	})

	t.Run("cache failure falls back to the user record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := repomocks.NewMockUserRepository(ctrl)
		sessions := cachemocks.NewMockSessionStore(ctrl)
		log, hook := nullLogger()
		svc := NewAuthService(AuthServiceConfig{UserRepo: users, Sessions: sessions, SessionTTL: time.Minute, Logger: log})

		sessions.EXPECT().Get(gomock.Any(), user.ID.Hex()).Return(nil, assert.AnError)
		users.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
		sessions.EXPECT().Put(gomock.Any(), user.ID.Hex(), gomock.Any(), time.Minute).Return(assert.AnError)

		_, err := svc.Authenticate(context.Background(), claims)

		require.NoError(t, err)
		require.Len(t, hook.AllEntries(), 2)
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})

	t.Run("deleted user is unauthorized", func(t *testing.T) {
		svc, deps := newAuthService(t, false)

		deps.users.EXPECT().FindByID(gomock.Any(), user.ID).Return(nil, apperrors.ErrUserNotFound)

		_, err := svc.Authenticate(context.Background(), claims)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("malformed subject is an invalid token", func(t *testing.T) {
		svc, _ := newAuthService(t, true)

		_, err := svc.Authenticate(context.Background(), &auth.Claims{UserID: "not-an-id"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestAuthService_Me(t *testing.T) {
	svc, deps := newAuthService(t, false)
	user := fixtures.NewUser().BuildPtr()

	deps.users.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

	got, err := svc.Me(context.Background(), actorOf(user))

	require.NoError(t, err)
	assert.Equal(t, user, got)
}
