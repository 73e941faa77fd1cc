package authz

import (
	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskCreateInput is the snapshot needed to decide a task creation.
type TaskCreateInput struct {
	Actor Actor
	// Team is the team named by Change.TeamID, nil if it does not exist.
	Team *models.Team
	// Assignee is the user named by Change.AssignedTo, nil if it does not exist.
	Assignee *models.User
	Change   TaskChange
}

// CheckTaskCreate decides whether the actor may create the task. On Allow the
// decision carries the new task with defaults applied.
func CheckTaskCreate(in TaskCreateInput) Decision {
	switch in.Actor.Role {
	case models.RoleMember:
		return Deny(ReasonMembersCannotCreateTasks)
	case models.RoleLead, models.RoleAdmin:
	default:
		return Deny(ReasonUnknownRole)
	}

	if in.Team == nil {
		return DenyWith(ReasonTeamNotFound, apperrors.ErrTeamReferenceInvalid)
	}

	if !isMember(in.Team, in.Actor.ID) {
		switch in.Actor.Role {
		case models.RoleAdmin:
			// admins may create tasks in any team
		case models.RoleLead:
			return DenyWith(ReasonNotTeamMember, apperrors.ErrLeadsOwnTeamsOnly)
		default:
			return Deny(ReasonNotTeamMember)
		}
	}

	if in.Change.AssignedTo != nil {
		if d := checkAssignee(in.Actor, in.Team, *in.Change.AssignedTo, in.Assignee); !d.Allowed {
			return d
		}
	}

	task := &models.Task{
		TeamID:     in.Team.ID,
		Status:     models.StatusTodo,
		Priority:   models.PriorityMedium,
		AssignedTo: in.Change.AssignedTo,
		DueDate:    in.Change.DueDate,
		CreatedBy:  in.Actor.ID,
	}
	if in.Change.Title != nil {
		task.Title = *in.Change.Title
	}
	if in.Change.Description != nil {
		task.Description = *in.Change.Description
	}
	if in.Change.Status != nil && *in.Change.Status != "" {
		task.Status = *in.Change.Status
	}
	if in.Change.Priority != nil && *in.Change.Priority != "" {
		task.Priority = *in.Change.Priority
	}
	return AllowTask(task)
}

// TaskUpdateInput is the snapshot needed to decide a task update.
type TaskUpdateInput struct {
	Actor Actor
	Task  *models.Task
	// Team is the task's current team.
	Team *models.Team
	// NewTeam is the team named by Change.TeamID when it differs from the
	// current one, nil if it does not exist.
	NewTeam  *models.Team
	Assignee *models.User
	Change   TaskChange
}

// CheckTaskUpdate decides whether the actor may apply the change. Admins get
// no membership bypass here. On Allow the decision carries the updated task.
func CheckTaskUpdate(in TaskUpdateInput) Decision {
	if in.Task == nil {
		return Deny(ReasonTaskNotFound)
	}
	if !in.Actor.Role.Valid() {
		return Deny(ReasonUnknownRole)
	}
	if !isMember(in.Team, in.Actor.ID) {
		return Deny(ReasonNotTeamMember)
	}

	if teamChanging(in.Task, in.Change) {
		if in.NewTeam == nil {
			return DenyWith(ReasonTeamNotFound, apperrors.ErrTeamReferenceInvalid)
		}
		if !isMember(in.NewTeam, in.Actor.ID) {
			return Deny(ReasonNotTeamMember)
		}
	}

	// Assignee eligibility is checked against the current team even when
	// the same change moves the task.
	if in.Change.AssignedTo != nil && !in.Change.Unassign {
		if d := checkAssignee(in.Actor, in.Team, *in.Change.AssignedTo, in.Assignee); !d.Allowed {
			return d
		}
	}

	// Member restrictions come last, after every reference in the change
	// has been validated.
	switch in.Actor.Role {
	case models.RoleMember:
		if !in.Task.IsAssignedTo(in.Actor.ID) {
			return Deny(ReasonMembersAssignedTasksOnly)
		}
		if in.Change.touchesOtherThanStatus() {
			return Deny(ReasonMembersStatusOnly)
		}
	case models.RoleLead, models.RoleAdmin:
	}

	return AllowTask(applyTaskChange(in.Task, in.Change))
}

// TaskDeleteInput is the snapshot needed to decide a task deletion.
type TaskDeleteInput struct {
	Actor Actor
	Task  *models.Task
	Team  *models.Team
}

// CheckTaskDelete decides whether the actor may delete the task.
func CheckTaskDelete(in TaskDeleteInput) Decision {
	if in.Task == nil {
		return Deny(ReasonTaskNotFound)
	}
	if !in.Actor.Role.Valid() {
		return Deny(ReasonUnknownRole)
	}
	if !isMember(in.Team, in.Actor.ID) {
		return Deny(ReasonNotTeamMember)
	}

	switch in.Actor.Role {
	case models.RoleAdmin:
		return AllowTask(in.Task)
	case models.RoleLead, models.RoleMember:
		if in.Task.CreatedBy == in.Actor.ID {
			return AllowTask(in.Task)
		}
	}
	return Deny(ReasonOnlyCreatorOrAdminCanDelete)
}

// TaskViewInput is the snapshot needed to decide whether a task is visible.
type TaskViewInput struct {
	Actor Actor
	Task  *models.Task
	Team  *models.Team
}

// CheckTaskView decides whether the actor may read the task.
func CheckTaskView(in TaskViewInput) Decision {
	if in.Task == nil {
		return Deny(ReasonTaskNotFound)
	}
	switch in.Actor.Role {
	case models.RoleAdmin:
		return AllowTask(in.Task)
	case models.RoleLead, models.RoleMember:
		if isMember(in.Team, in.Actor.ID) {
			return AllowTask(in.Task)
		}
		return Deny(ReasonNotTeamMember)
	default:
		return Deny(ReasonUnknownRole)
	}
}

// checkAssignee applies the assignment eligibility rules for assigning
// assigneeID to a task of team.
func checkAssignee(actor Actor, team *models.Team, assigneeID primitive.ObjectID, assignee *models.User) Decision {
	if assignee == nil || assignee.ID != assigneeID {
		return Deny(ReasonUserNotFound)
	}

	self := assigneeID == actor.ID
	if assignee.Role == models.RoleAdmin && !self {
		return Deny(ReasonOnlyAdminSelfAssign)
	}
	if actor.Role == models.RoleLead && assignee.Role != models.RoleMember {
		return Deny(ReasonLeadAssignOnlyToMembers)
	}
	if self && actor.Role == models.RoleAdmin && assignee.Role == models.RoleAdmin {
		return Allow()
	}
	if !isMember(team, assigneeID) {
		return Deny(ReasonAssigneeMustBeTeamMember)
	}
	return Allow()
}

func teamChanging(task *models.Task, c TaskChange) bool {
	return c.TeamID != nil && *c.TeamID != task.TeamID
}

// applyTaskChange returns a copy of task with the change applied.
func applyTaskChange(task *models.Task, c TaskChange) *models.Task {
	next := *task
	if c.Title != nil {
		next.Title = *c.Title
	}
	if c.Description != nil {
		next.Description = *c.Description
	}
	if c.Status != nil {
		next.Status = *c.Status
	}
	if c.Priority != nil {
		next.Priority = *c.Priority
	}
	switch {
	case c.Unassign:
		next.AssignedTo = nil
	case c.AssignedTo != nil:
		id := *c.AssignedTo
		next.AssignedTo = &id
	}
	if c.TeamID != nil {
		next.TeamID = *c.TeamID
	}
	switch {
	case c.ClearDueDate:
		next.DueDate = nil
	case c.DueDate != nil:
		d := *c.DueDate
		next.DueDate = &d
	}
	return &next
}
