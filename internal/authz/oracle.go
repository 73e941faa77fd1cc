package authz

import (
	"context"
	"errors"
	"sync"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserFinder is the interface required by the oracle to look up users.
// FindByID returns ErrUserNotFound for a missing user.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// TeamFinder is the interface required by the oracle to look up teams.
// FindByID returns ErrTeamNotFound for a missing team.
type TeamFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error)
	FindIDsByMember(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// TaskFinder is the interface required by the engine to load task snapshots.
// FindByID returns ErrTaskNotFound for a missing task.
type TaskFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
}

// MembershipOracle answers role and team-membership questions against
// current state.
type MembershipOracle interface {
	// RoleOf returns the user's role, or an empty role if the user does not exist.
	RoleOf(ctx context.Context, userID primitive.ObjectID) (models.Role, error)

	// IsMember reports whether the user is in the team's member set.
	IsMember(ctx context.Context, userID, teamID primitive.ObjectID) (bool, error)

	// IsCreator reports whether the user created the team.
	IsCreator(ctx context.Context, userID, teamID primitive.ObjectID) (bool, error)
}

// isMember and isCreator are the only membership predicates. Guards use them
// directly on snapshots; the oracle uses them on the teams it loads.
func isMember(team *models.Team, userID primitive.ObjectID) bool {
	return team != nil && team.HasMember(userID)
}

func isCreator(team *models.Team, userID primitive.ObjectID) bool {
	return team != nil && team.CreatedBy == userID
}

// RequestOracle is a MembershipOracle that memoizes every lookup. It must be
// scoped to a single request so that decisions see one consistent snapshot.
type RequestOracle struct {
	users UserFinder
	teams TeamFinder

	mu       sync.Mutex
	userMemo map[primitive.ObjectID]*models.User
	teamMemo map[primitive.ObjectID]*models.Team
	memberOf map[primitive.ObjectID][]primitive.ObjectID
}

var _ MembershipOracle = (*RequestOracle)(nil)

// NewRequestOracle creates an oracle backed by the given finders.
func NewRequestOracle(users UserFinder, teams TeamFinder) *RequestOracle {
	return &RequestOracle{
		users:    users,
		teams:    teams,
		userMemo: make(map[primitive.ObjectID]*models.User),
		teamMemo: make(map[primitive.ObjectID]*models.Team),
		memberOf: make(map[primitive.ObjectID][]primitive.ObjectID),
	}
}

// User returns the user snapshot, or nil if the user does not exist.
func (o *RequestOracle) User(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	o.mu.Lock()
	if u, ok := o.userMemo[id]; ok {
		o.mu.Unlock()
		return u, nil
	}
	o.mu.Unlock()

	u, err := o.users.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		u = nil
	}

	o.mu.Lock()
	o.userMemo[id] = u
	o.mu.Unlock()
	return u, nil
}

// Users returns the snapshots of the users in ids that exist.
func (o *RequestOracle) Users(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	var missing []primitive.ObjectID
	found := make([]*models.User, 0, len(ids))

	o.mu.Lock()
	for _, id := range ids {
		if u, ok := o.userMemo[id]; ok {
			if u != nil {
				found = append(found, u)
			}
			continue
		}
		missing = append(missing, id)
	}
	o.mu.Unlock()

	if len(missing) == 0 {
		return found, nil
	}

	loaded, err := o.users.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	byID := make(map[primitive.ObjectID]*models.User, len(loaded))
	for i := range loaded {
		byID[loaded[i].ID] = &loaded[i]
	}
	for _, id := range missing {
		u := byID[id]
		o.userMemo[id] = u
		if u != nil {
			found = append(found, u)
		}
	}
	return found, nil
}

// Team returns the team snapshot, or nil if the team does not exist.
func (o *RequestOracle) Team(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	o.mu.Lock()
	if t, ok := o.teamMemo[id]; ok {
		o.mu.Unlock()
		return t, nil
	}
	o.mu.Unlock()

	t, err := o.teams.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrTeamNotFound) {
			return nil, err
		}
		t = nil
	}

	o.mu.Lock()
	o.teamMemo[id] = t
	o.mu.Unlock()
	return t, nil
}

// Memberships returns the ids of the teams the user belongs to.
func (o *RequestOracle) Memberships(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	o.mu.Lock()
	if ids, ok := o.memberOf[userID]; ok {
		o.mu.Unlock()
		return ids, nil
	}
	o.mu.Unlock()

	ids, err := o.teams.FindIDsByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []primitive.ObjectID{}
	}

	o.mu.Lock()
	o.memberOf[userID] = ids
	o.mu.Unlock()
	return ids, nil
}

// RoleOf returns the user's role, or an empty role if the user does not exist.
func (o *RequestOracle) RoleOf(ctx context.Context, userID primitive.ObjectID) (models.Role, error) {
	u, err := o.User(ctx, userID)
	if err != nil || u == nil {
		return "", err
	}
	return u.Role, nil
}

// IsMember reports whether the user is in the team's member set. A missing
// team has no members.
func (o *RequestOracle) IsMember(ctx context.Context, userID, teamID primitive.ObjectID) (bool, error) {
	t, err := o.Team(ctx, teamID)
	if err != nil {
		return false, err
	}
	return isMember(t, userID), nil
}

// IsCreator reports whether the user created the team.
func (o *RequestOracle) IsCreator(ctx context.Context, userID, teamID primitive.ObjectID) (bool, error) {
	t, err := o.Team(ctx, teamID)
	if err != nil {
		return false, err
	}
	return isCreator(t, userID), nil
}
