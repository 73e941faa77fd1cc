// Package authz decides whether an actor may perform a task, team or user
// mutation, and which normalized change results when they may.
//
// Guards are pure functions over snapshots. Engine resolves those snapshots
// through a per-request MembershipOracle and dispatches to the guards.
package authz

import (
	"time"

	"taskboard/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action identifies an operation subject to authorization.
type Action string

// Action constants define the authorization actions.
const (
	ActionTaskCreate     Action = "task:create"
	ActionTaskUpdate     Action = "task:update"
	ActionTaskDelete     Action = "task:delete"
	ActionTaskView       Action = "task:view"
	ActionTeamCreate     Action = "team:create"
	ActionTeamUpdate     Action = "team:update"
	ActionTeamDelete     Action = "team:delete"
	ActionTeamView       Action = "team:view"
	ActionTeamAddMember  Action = "team:add_member"
	ActionUserCreate     Action = "user:create"
	ActionUserUpdateRole Action = "user:update_role"
	ActionUserList       Action = "user:list"
)

// Actor is the authenticated identity attempting an action.
type Actor struct {
	ID   primitive.ObjectID
	Role models.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Task field names as they appear in a request body.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldAssignedTo  = "assignedTo"
	FieldTeamID      = "teamId"
	FieldDueDate     = "dueDate"
)

// TaskChange is a proposed set of task field values. Nil pointers are
// fields that were not supplied.
type TaskChange struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	AssignedTo   *primitive.ObjectID
	Unassign     bool // explicit null assignee
	TeamID       *primitive.ObjectID
	DueDate      *time.Time
	ClearDueDate bool

	// Fields lists every key present in the request body, including keys
	// the server does not recognize. When nil it is derived from the
	// populated fields above.
	Fields []string
}

// Present returns the field names supplied with the change.
func (c TaskChange) Present() []string {
	if c.Fields != nil {
		return c.Fields
	}
	var fields []string
	if c.Title != nil {
		fields = append(fields, FieldTitle)
	}
	if c.Description != nil {
		fields = append(fields, FieldDescription)
	}
	if c.Status != nil {
		fields = append(fields, FieldStatus)
	}
	if c.Priority != nil {
		fields = append(fields, FieldPriority)
	}
	if c.AssignedTo != nil || c.Unassign {
		fields = append(fields, FieldAssignedTo)
	}
	if c.TeamID != nil {
		fields = append(fields, FieldTeamID)
	}
	if c.DueDate != nil || c.ClearDueDate {
		fields = append(fields, FieldDueDate)
	}
	return fields
}

// touchesOtherThanStatus reports whether any field besides status was supplied.
func (c TaskChange) touchesOtherThanStatus() bool {
	for _, f := range c.Present() {
		if f != FieldStatus {
			return true
		}
	}
	return false
}

// TeamChange is a proposed set of team field values.
type TeamChange struct {
	Name        *string
	Description *string
	MemberIDs   []primitive.ObjectID
}

// UserChange is a proposed change to a user record.
type UserChange struct {
	Role models.Role
}

// UserQuery is a request to browse the user directory.
type UserQuery struct {
	Search string
	Role   models.Role
	// Email is set for exact-address lookups, which skip the search rules.
	Email string
}

// Target identifies the entity an action applies to. Only the ids relevant
// to the action need to be set.
type Target struct {
	TaskID primitive.ObjectID
	TeamID primitive.ObjectID
	UserID primitive.ObjectID
}

// Change carries the proposed change for an action.
type Change struct {
	Task  TaskChange
	Team  TeamChange
	User  UserChange
	Query UserQuery
}

// AuthorizationRequest is the input to Engine.Authorize.
type AuthorizationRequest struct {
	Actor  Actor
	Action Action
	Target Target
	Change Change
}
