package authz

import (
	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
)

// DenyReason names the rule that rejected a request.
type DenyReason string

// Deny reasons. Each maps to exactly one default error in reasonErrors.
const (
	ReasonMembersCannotCreateTasks        DenyReason = "members_cannot_create_tasks"
	ReasonNotTeamMember                   DenyReason = "not_team_member"
	ReasonAssigneeMustBeTeamMember        DenyReason = "assignee_must_be_team_member"
	ReasonOnlyAdminSelfAssign             DenyReason = "only_admin_self_assign"
	ReasonLeadAssignOnlyToMembers         DenyReason = "lead_assign_only_to_members"
	ReasonMembersAssignedTasksOnly        DenyReason = "members_assigned_tasks_only"
	ReasonMembersStatusOnly               DenyReason = "members_status_only"
	ReasonOnlyCreatorOrAdminCanDelete     DenyReason = "only_creator_or_admin_can_delete"
	ReasonOnlyCreatorLeadOrAdminCanDelete DenyReason = "only_creator_lead_or_admin_can_delete"
	ReasonAdminCannotSelfAddToTeam        DenyReason = "admin_cannot_self_add_to_team"
	ReasonNotAuthorizedToAddMembers       DenyReason = "not_authorized_to_add_members"
	ReasonAlreadyMember                   DenyReason = "already_member"
	ReasonOnlyAdminsCreateTeams           DenyReason = "only_admins_create_teams"
	ReasonUnknownTeamMembers              DenyReason = "unknown_team_members"
	ReasonTeamNotFound                    DenyReason = "team_not_found"
	ReasonUserNotFound                    DenyReason = "user_not_found"
	ReasonTaskNotFound                    DenyReason = "task_not_found"
	ReasonOnlyAdminsManageRoles           DenyReason = "only_admins_manage_roles"
	ReasonCannotChangeOwnRole             DenyReason = "cannot_change_own_role"
	ReasonOnlyAdminsCreateUsers           DenyReason = "only_admins_create_users"
	ReasonCannotCreateAdmin               DenyReason = "cannot_create_admin"
	ReasonDirectoryRestricted             DenyReason = "directory_restricted"
	ReasonRoleFilterRestricted            DenyReason = "role_filter_restricted"
	ReasonSearchTooShort                  DenyReason = "search_too_short"
	ReasonSearchRequired                  DenyReason = "search_required"
	ReasonOutOfScopeFilter                DenyReason = "out_of_scope_filter"
	ReasonUnknownRole                     DenyReason = "unknown_role"
	ReasonUnknownAction                   DenyReason = "unknown_action"
)

var reasonErrors = map[DenyReason]error{
	ReasonMembersCannotCreateTasks:        apperrors.ErrMembersCannotCreateTasks,
	ReasonNotTeamMember:                   apperrors.ErrNotTeamMember,
	ReasonAssigneeMustBeTeamMember:        apperrors.ErrAssigneeNotTeamMember,
	ReasonOnlyAdminSelfAssign:             apperrors.ErrOnlyAdminSelfAssign,
	ReasonLeadAssignOnlyToMembers:         apperrors.ErrLeadAssignOnlyToMembers,
	ReasonMembersAssignedTasksOnly:        apperrors.ErrMembersAssignedTasksOnly,
	ReasonMembersStatusOnly:               apperrors.ErrMembersStatusOnly,
	ReasonOnlyCreatorOrAdminCanDelete:     apperrors.ErrOnlyCreatorOrAdminCanDelete,
	ReasonOnlyCreatorLeadOrAdminCanDelete: apperrors.ErrOnlyCreatorLeadOrAdminCanDelete,
	ReasonAdminCannotSelfAddToTeam:        apperrors.ErrAdminCannotSelfAdd,
	ReasonNotAuthorizedToAddMembers:       apperrors.ErrNotAuthorizedToAddMembers,
	ReasonAlreadyMember:                   apperrors.ErrAlreadyMember,
	ReasonOnlyAdminsCreateTeams:           apperrors.ErrOnlyAdminsCreateTeams,
	ReasonUnknownTeamMembers:              apperrors.ErrUnknownTeamMembers,
	ReasonTeamNotFound:                    apperrors.ErrTeamNotFound,
	ReasonUserNotFound:                    apperrors.ErrUserReferenceInvalid,
	ReasonTaskNotFound:                    apperrors.ErrTaskNotFound,
	ReasonOnlyAdminsManageRoles:           apperrors.ErrOnlyAdminsManageRoles,
	ReasonCannotChangeOwnRole:             apperrors.ErrCannotChangeOwnRole,
	ReasonOnlyAdminsCreateUsers:           apperrors.ErrOnlyAdminsCreateUsers,
	ReasonCannotCreateAdmin:               apperrors.ErrCannotCreateAdmin,
	ReasonDirectoryRestricted:             apperrors.ErrDirectoryRestricted,
	ReasonRoleFilterRestricted:            apperrors.ErrRoleFilterRestricted,
	ReasonSearchTooShort:                  apperrors.ErrSearchTooShort,
	ReasonSearchRequired:                  apperrors.ErrSearchRequired,
	ReasonOutOfScopeFilter:                apperrors.ErrOutOfScopeFilter,
	ReasonUnknownRole:                     apperrors.ErrUnknownRole,
	ReasonUnknownAction:                   apperrors.ErrUnknownAction,
}

// Err returns the error reported to clients for r.
func (r DenyReason) Err() error {
	if err, ok := reasonErrors[r]; ok {
		return err
	}
	return apperrors.ErrUnauthorized
}

// Decision is the outcome of an authorization check: either Allow with the
// normalized entity to persist, or Deny with a reason.
type Decision struct {
	Allowed bool
	Reason  DenyReason

	// Normalized entities produced by an allowing guard. Which one is set
	// depends on the action.
	Task *models.Task
	Team *models.Team
	User *models.User

	err error
}

// Allow returns an allowing decision with no normalized entity.
func Allow() Decision {
	return Decision{Allowed: true}
}

// AllowTask returns an allowing decision carrying the task to persist.
func AllowTask(t *models.Task) Decision {
	return Decision{Allowed: true, Task: t}
}

// AllowTeam returns an allowing decision carrying the team to persist.
func AllowTeam(t *models.Team) Decision {
	return Decision{Allowed: true, Team: t}
}

// AllowUser returns an allowing decision carrying the user to persist.
func AllowUser(u *models.User) Decision {
	return Decision{Allowed: true, User: u}
}

// Deny returns a denying decision for reason.
func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// DenyWith returns a denying decision whose reported error differs from the
// reason's default, e.g. a lead-specific message for ReasonNotTeamMember.
func DenyWith(reason DenyReason, err error) Decision {
	return Decision{Reason: reason, err: err}
}

// Err returns nil for an allowing decision and the client-facing error
// otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.err != nil {
		return d.err
	}
	return d.Reason.Err()
}
