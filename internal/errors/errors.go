// Package errors provides custom error types for the application.
package errors

import "errors"

// User errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserReferenceInvalid = errors.New("user does not exist")
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrIncorrectPassword    = errors.New("current password is incorrect")
)

// Auth errors
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrSessionRevoked = errors.New("session has been revoked, please log in again")
)

// Team errors
var (
	ErrTeamNotFound                    = errors.New("team not found")
	ErrTeamReferenceInvalid            = errors.New("team does not exist")
	ErrNotTeamMember                   = errors.New("not a member of this team")
	ErrLeadsOwnTeamsOnly               = errors.New("leads can only create tasks for their own teams")
	ErrOnlyAdminsCreateTeams           = errors.New("only admins can create teams")
	ErrUnknownTeamMembers              = errors.New("some memberIds do not match existing users")
	ErrOnlyCreatorLeadOrAdminCanDelete = errors.New("only an admin or the lead who created the team can delete it")
	ErrAdminCannotSelfAdd              = errors.New("admins cannot add themselves to a team")
	ErrNotAuthorizedToAddMembers       = errors.New("not authorized to add members to this team")
	ErrAlreadyMember                   = errors.New("user is already a team member")
)

// Task errors
var (
	ErrTaskNotFound                = errors.New("task not found")
	ErrMembersCannotCreateTasks    = errors.New("members cannot create tasks")
	ErrOnlyAdminSelfAssign         = errors.New("only the admin can assign tasks to themselves")
	ErrLeadAssignOnlyToMembers     = errors.New("leads can only assign tasks to members")
	ErrAssigneeNotTeamMember       = errors.New("assigned user must be a member of the team")
	ErrMembersAssignedTasksOnly    = errors.New("members can only update tasks assigned to them")
	ErrMembersStatusOnly           = errors.New("members can only update task status")
	ErrOnlyCreatorOrAdminCanDelete = errors.New("only the task creator or an admin can delete this task")
)

// User management errors
var (
	ErrOnlyAdminsManageRoles = errors.New("only admins can change user roles")
	ErrCannotChangeOwnRole   = errors.New("you cannot change your own role")
	ErrOnlyAdminsCreateUsers = errors.New("only admins can create users")
	ErrCannotCreateAdmin     = errors.New("role must be member or lead")
	ErrDirectoryRestricted   = errors.New("members cannot browse the user directory")
	ErrRoleFilterRestricted  = errors.New("you can only filter by role=member")
	ErrSearchTooShort        = errors.New("search must be at least 2 characters")
	ErrSearchRequired        = errors.New("search query is required")
)

// Request errors
var (
	ErrInvalidID = errors.New("invalid id format")
)

// Authorization errors
var (
	ErrOutOfScopeFilter = errors.New("not authorized to view tasks for this team")
	ErrUnknownRole      = errors.New("unknown role")
	ErrUnknownAction    = errors.New("unknown action")
)

// Kind classifies an error for the transport layer.
type Kind int

// Error kinds. KindInternal is the zero value so unclassified errors are never
// reported as client errors.
const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindInvalidReference
	KindNotFound
	KindConflict
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindInvalidReference:
		return "invalid_reference"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	default:
		return "internal"
	}
}

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrUnauthorized, KindUnauthenticated},
	{ErrInvalidToken, KindUnauthenticated},
	{ErrTokenExpired, KindUnauthenticated},
	{ErrSessionRevoked, KindUnauthenticated},
	{ErrInvalidCredentials, KindUnauthenticated},

	{ErrUserNotFound, KindNotFound},
	{ErrTeamNotFound, KindNotFound},
	{ErrTaskNotFound, KindNotFound},

	{ErrUserReferenceInvalid, KindInvalidReference},
	{ErrTeamReferenceInvalid, KindInvalidReference},
	{ErrUnknownTeamMembers, KindInvalidReference},
	{ErrAssigneeNotTeamMember, KindInvalidReference},

	{ErrUserAlreadyExists, KindConflict},
	{ErrAlreadyMember, KindConflict},

	{ErrInvalidID, KindBadRequest},
	{ErrIncorrectPassword, KindBadRequest},
	{ErrRoleFilterRestricted, KindBadRequest},
	{ErrSearchTooShort, KindBadRequest},
	{ErrSearchRequired, KindBadRequest},
	{ErrCannotCreateAdmin, KindBadRequest},

	{ErrNotTeamMember, KindForbidden},
	{ErrLeadsOwnTeamsOnly, KindForbidden},
	{ErrOnlyAdminsCreateTeams, KindForbidden},
	{ErrOnlyCreatorLeadOrAdminCanDelete, KindForbidden},
	{ErrAdminCannotSelfAdd, KindForbidden},
	{ErrNotAuthorizedToAddMembers, KindForbidden},
	{ErrMembersCannotCreateTasks, KindForbidden},
	{ErrOnlyAdminSelfAssign, KindForbidden},
	{ErrLeadAssignOnlyToMembers, KindForbidden},
	{ErrMembersAssignedTasksOnly, KindForbidden},
	{ErrMembersStatusOnly, KindForbidden},
	{ErrOnlyCreatorOrAdminCanDelete, KindForbidden},
	{ErrOnlyAdminsManageRoles, KindForbidden},
	{ErrCannotChangeOwnRole, KindForbidden},
	{ErrOnlyAdminsCreateUsers, KindForbidden},
	{ErrDirectoryRestricted, KindForbidden},
	{ErrOutOfScopeFilter, KindForbidden},
	{ErrUnknownRole, KindForbidden},
	{ErrUnknownAction, KindForbidden},
}

// KindOf returns the kind of err, following wrapped errors. Errors that are
// not one of the sentinels above are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
