package authz

import (
	"taskboard/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskScope is the set of teams whose tasks an actor may read.
type TaskScope struct {
	// Unrestricted is true when no team restriction applies.
	Unrestricted bool
	// TeamIDs are the visible teams when Unrestricted is false. An empty
	// slice means nothing is visible.
	TeamIDs []primitive.ObjectID
}

// TeamRestriction returns the team ids reads must be limited to, or nil
// when reads are unrestricted.
func (s TaskScope) TeamRestriction() []primitive.ObjectID {
	if s.Unrestricted {
		return nil
	}
	if s.TeamIDs == nil {
		return []primitive.ObjectID{}
	}
	return s.TeamIDs
}

// Includes reports whether tasks of teamID are visible in the scope.
func (s TaskScope) Includes(teamID primitive.ObjectID) bool {
	if s.Unrestricted {
		return true
	}
	for _, id := range s.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// ScopeTasks derives the task visibility scope for actor from the teams they
// belong to. An explicit teamFilter narrows the scope to that team; for a
// non-admin it must be one of memberOf or the request is denied.
func ScopeTasks(actor Actor, memberOf []primitive.ObjectID, teamFilter *primitive.ObjectID) (TaskScope, Decision) {
	switch actor.Role {
	case models.RoleAdmin:
		if teamFilter != nil {
			return TaskScope{TeamIDs: []primitive.ObjectID{*teamFilter}}, Allow()
		}
		return TaskScope{Unrestricted: true}, Allow()
	case models.RoleLead, models.RoleMember:
	default:
		return TaskScope{}, Deny(ReasonUnknownRole)
	}

	scope := TaskScope{TeamIDs: dedupe(memberOf)}
	if teamFilter == nil {
		return scope, Allow()
	}
	if !scope.Includes(*teamFilter) {
		return TaskScope{}, Deny(ReasonOutOfScopeFilter)
	}
	return TaskScope{TeamIDs: []primitive.ObjectID{*teamFilter}}, Allow()
}

// ScopeTeams derives the team visibility scope for actor. Teams share the
// task scope shape: admins see every team, others the teams they belong to.
func ScopeTeams(actor Actor, memberOf []primitive.ObjectID) (TaskScope, Decision) {
	return ScopeTasks(actor, memberOf, nil)
}
