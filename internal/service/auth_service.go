// Package service contains business logic for the application.
package service

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/authz"
	"taskboard/internal/cache"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/pkg/auth"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService handles authentication business logic.
type AuthService struct {
	userRepo   repository.UserRepository
	sessions   cache.SessionStore
	jwtManager auth.TokenManager
	hasher     auth.PasswordHasher
	sessionTTL time.Duration
	log        logrus.FieldLogger
}

// AuthServiceConfig holds configuration for AuthService.
type AuthServiceConfig struct {
	UserRepo   repository.UserRepository
	Sessions   cache.SessionStore // optional; without it every request reads the user record
	JWTManager auth.TokenManager
	Hasher     auth.PasswordHasher
	SessionTTL time.Duration
	Logger     logrus.FieldLogger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		userRepo:   cfg.UserRepo,
		sessions:   cfg.Sessions,
		jwtManager: cfg.JWTManager,
		hasher:     cfg.Hasher,
		sessionTTL: cfg.SessionTTL,
		log:        loggerOrDefault(cfg.Logger),
	}
}

// Signup registers a member account and returns a session token.
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.LoginResponse, error) {
	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Role:     models.RoleMember,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.loginResponse(user)
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(req.Password, user.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.loginResponse(user)
}

// Logout invalidates every token issued to the actor.
func (s *AuthService) Logout(ctx context.Context, actor authz.Actor) error {
	if _, err := s.userRepo.IncrementTokenVersion(ctx, actor.ID); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	s.storeSession(ctx, user)
	return nil
}

// Me returns the actor's user record.
func (s *AuthService) Me(ctx context.Context, actor authz.Actor) (*models.User, error) {
	return s.userRepo.FindByID(ctx, actor.ID)
}

// Authenticate resolves validated token claims to an actor. The role is read
// from current state, not from the token, and a token whose version is
// behind the user's is rejected.
func (s *AuthService) Authenticate(ctx context.Context, claims *auth.Claims) (authz.Actor, error) {
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return authz.Actor{}, apperrors.ErrInvalidToken
	}

	state, err := s.session(ctx, userID)
	if err != nil {
		return authz.Actor{}, err
	}
	if state.TokenVersion != claims.TokenVersion {
		return authz.Actor{}, apperrors.ErrSessionRevoked
	}

	return authz.Actor{ID: userID, Role: state.Role}, nil
}

// session returns the user's session state from the cache, falling back to
// the user record on a miss or cache failure.
func (s *AuthService) session(ctx context.Context, userID primitive.ObjectID) (*cache.SessionState, error) {
	if s.sessions != nil {
		state, err := s.sessions.Get(ctx, userID.Hex())
		if err != nil {
			s.log.WithError(err).WithField("user_id", userID.Hex()).Warn("session cache read failed")
		} else if state != nil {
			return state, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	state := s.storeSession(ctx, user)
	return &state, nil
}

func (s *AuthService) storeSession(ctx context.Context, user *models.User) cache.SessionState {
	state := cache.SessionStateOf(user)
	if s.sessions == nil {
		return state
	}
	if err := s.sessions.Put(ctx, user.ID.Hex(), state, s.sessionTTL); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID.Hex()).Warn("session cache write failed")
	}
	return state
}

func (s *AuthService) loginResponse(user *models.User) (*models.LoginResponse, error) {
	token, err := s.jwtManager.GenerateToken(user.ID.Hex(), user.Role.String(), user.TokenVersion)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token: token,
		User:  *user,
	}, nil
}
