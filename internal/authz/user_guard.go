package authz

import (
	"strings"

	"taskboard/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MinSearchLength is the shortest accepted user directory search.
const MinSearchLength = 2

// UserCreateInput is the input for an admin creating a user.
type UserCreateInput struct {
	Actor  Actor
	Change UserChange
}

// CheckUserCreate decides whether the actor may create a user with the
// requested role. An empty role defaults to member.
func CheckUserCreate(in UserCreateInput) Decision {
	switch in.Actor.Role {
	case models.RoleAdmin:
	case models.RoleLead, models.RoleMember:
		return Deny(ReasonOnlyAdminsCreateUsers)
	default:
		return Deny(ReasonUnknownRole)
	}

	role := in.Change.Role
	if role == "" {
		role = models.RoleMember
	}
	switch role {
	case models.RoleMember, models.RoleLead:
		return AllowUser(&models.User{Role: role})
	default:
		return Deny(ReasonCannotCreateAdmin)
	}
}

// UserRoleUpdateInput is the snapshot needed to decide a role change.
type UserRoleUpdateInput struct {
	Actor    Actor
	TargetID primitive.ObjectID
	// Target is the user named by TargetID, nil if it does not exist.
	Target *models.User
	Change UserChange
}

// CheckUserRoleUpdate decides whether the actor may set the target's role.
// This is the only path by which a role is ever raised.
func CheckUserRoleUpdate(in UserRoleUpdateInput) Decision {
	switch in.Actor.Role {
	case models.RoleAdmin:
	case models.RoleLead, models.RoleMember:
		return Deny(ReasonOnlyAdminsManageRoles)
	default:
		return Deny(ReasonUnknownRole)
	}

	if in.TargetID == in.Actor.ID {
		return Deny(ReasonCannotChangeOwnRole)
	}
	if !in.Change.Role.Valid() {
		return Deny(ReasonUnknownRole)
	}
	if in.Target == nil {
		return Deny(ReasonUserNotFound)
	}

	next := *in.Target
	next.Role = in.Change.Role
	return AllowUser(&next)
}

// UserDirectoryInput is the input for listing or looking up users.
type UserDirectoryInput struct {
	Actor Actor
	Query UserQuery
}

// CheckUserDirectory decides whether the actor may run the directory query.
// Leads may only search, and only among members.
func CheckUserDirectory(in UserDirectoryInput) Decision {
	switch in.Actor.Role {
	case models.RoleMember:
		return Deny(ReasonDirectoryRestricted)
	case models.RoleLead, models.RoleAdmin:
	default:
		return Deny(ReasonUnknownRole)
	}

	if in.Query.Email != "" {
		return Allow()
	}

	search := strings.TrimSpace(in.Query.Search)
	if search != "" && len([]rune(search)) < MinSearchLength {
		return Deny(ReasonSearchTooShort)
	}
	if in.Query.Role != "" && in.Query.Role != models.RoleMember && !in.Actor.IsAdmin() {
		return Deny(ReasonRoleFilterRestricted)
	}
	if search == "" && !in.Actor.IsAdmin() {
		return Deny(ReasonSearchRequired)
	}
	return Allow()
}
