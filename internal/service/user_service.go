package service

import (
	"context"
	"errors"
	"strings"
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

// Directory page sizes.
const (
	DefaultUserLimit = 20
	MaxUserLimit     = 50
)

// UserService handles the user directory and account management.
type UserService struct {
	userRepo   repository.UserRepository
	engine     *authz.Engine
	hasher     auth.PasswordHasher
	sessions   cache.SessionStore
	sessionTTL time.Duration
	log        logrus.FieldLogger
}

// UserServiceConfig holds configuration for UserService.
type UserServiceConfig struct {
	UserRepo   repository.UserRepository
	Engine     *authz.Engine
	Hasher     auth.PasswordHasher
	Sessions   cache.SessionStore
	SessionTTL time.Duration
	Logger     logrus.FieldLogger
}

// NewUserService creates a new UserService.
func NewUserService(cfg UserServiceConfig) *UserService {
	return &UserService{
		userRepo:   cfg.UserRepo,
		engine:     cfg.Engine,
		hasher:     cfg.Hasher,
		sessions:   cfg.Sessions,
		sessionTTL: cfg.SessionTTL,
		log:        loggerOrDefault(cfg.Logger),
	}
}

// SearchByEmail looks up a user by exact email. A nil summary with a nil
// error means no user has that address.
func (s *UserService) SearchByEmail(ctx context.Context, actor authz.Actor, email string) (*models.UserSummary, error) {
	email = repository.NormalizeEmail(email)

	_, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionUserList,
		Change: authz.Change{Query: authz.UserQuery{Email: email}},
	})
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	summary := user.Summary()
	return &summary, nil
}

// List returns a page of the user directory.
func (s *UserService) List(ctx context.Context, actor authz.Actor, filter *models.UserFilter) (*models.UserListResponse, error) {
	search := strings.TrimSpace(filter.Search)

	_, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionUserList,
		Change: authz.Change{Query: authz.UserQuery{Search: search, Role: filter.Role}},
	})
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = DefaultUserLimit
	}
	if limit > MaxUserLimit {
		limit = MaxUserLimit
	}

	users, total, err := s.userRepo.List(ctx, repository.UserQuery{
		Search: search,
		Role:   filter.Role,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.UserSummary, 0, len(users))
	for i := range users {
		items = append(items, users[i].Summary())
	}

	return &models.UserListResponse{
		Items:      items,
		Pagination: models.NewPagination(page, limit, int64(total)),
	}, nil
}

// Create adds a user with a member or lead role.
func (s *UserService) Create(ctx context.Context, actor authz.Actor, req *models.CreateUserRequest) (*models.UserSummary, error) {
	d, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionUserCreate,
		Change: authz.Change{User: authz.UserChange{Role: req.Role}},
	})
	if err != nil {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := d.User
	user.Email = req.Email
	user.Name = req.Name
	user.Password = hashedPassword

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	summary := user.Summary()
	return &summary, nil
}

// UpdateRole sets another user's role and refreshes their cached session so
// the change applies to their next request.
func (s *UserService) UpdateRole(ctx context.Context, actor authz.Actor, userID primitive.ObjectID, role models.Role) (*models.UserSummary, error) {
	_, err := authorize(ctx, s.engine, s.log, authz.AuthorizationRequest{
		Actor:  actor,
		Action: authz.ActionUserUpdateRole,
		Target: authz.Target{UserID: userID},
		Change: authz.Change{User: authz.UserChange{Role: role}},
	})
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserReferenceInvalid
		}
		return nil, err
	}

	if s.sessions != nil {
		if err := s.sessions.Put(ctx, user.ID.Hex(), cache.SessionStateOf(user), s.sessionTTL); err != nil {
			// A stale entry would keep the old role until it expires.
			s.log.WithError(err).WithField("user_id", user.ID.Hex()).Warn("session refresh failed, dropping entry")
			_ = s.sessions.Delete(ctx, user.ID.Hex())
		}
	}

	s.log.WithFields(logrus.Fields{
		"actor_id": actor.ID.Hex(),
		"user_id":  user.ID.Hex(),
		"role":     role,
	}).Info("user role changed")

	summary := user.Summary()
	return &summary, nil
}

// ChangePassword replaces the actor's password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, actor authz.Actor, req *models.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(req.CurrentPassword, user.Password); err != nil {
		return apperrors.ErrIncorrectPassword
	}

	hashedPassword, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, actor.ID, hashedPassword)
}
