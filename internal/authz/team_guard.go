package authz

import (
	"taskboard/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamCreateInput is the snapshot needed to decide a team creation.
type TeamCreateInput struct {
	Actor  Actor
	Change TeamChange
	// Found holds the users among Change.MemberIDs that exist.
	Found []*models.User
}

// CheckTeamCreate decides whether the actor may create the team. On Allow the
// decision carries the team with a de-duplicated member set that always
// includes the creator.
func CheckTeamCreate(in TeamCreateInput) Decision {
	switch in.Actor.Role {
	case models.RoleAdmin:
	case models.RoleLead, models.RoleMember:
		return Deny(ReasonOnlyAdminsCreateTeams)
	default:
		return Deny(ReasonUnknownRole)
	}

	members := dedupe(in.Change.MemberIDs)

	exists := make(map[primitive.ObjectID]bool, len(in.Found))
	for _, u := range in.Found {
		if u != nil {
			exists[u.ID] = true
		}
	}
	for _, id := range members {
		if !exists[id] {
			return Deny(ReasonUnknownTeamMembers)
		}
	}

	team := &models.Team{CreatedBy: in.Actor.ID, Members: members}
	if !team.HasMember(in.Actor.ID) {
		team.Members = append(team.Members, in.Actor.ID)
	}
	if in.Change.Name != nil {
		team.Name = *in.Change.Name
	}
	if in.Change.Description != nil {
		team.Description = *in.Change.Description
	}
	return AllowTeam(team)
}

// TeamUpdateInput is the snapshot needed to decide a team update.
type TeamUpdateInput struct {
	Actor  Actor
	Team   *models.Team
	Change TeamChange
}

// CheckTeamUpdate decides whether the actor may rename or re-describe the
// team. Admins must be members too.
func CheckTeamUpdate(in TeamUpdateInput) Decision {
	if in.Team == nil {
		return Deny(ReasonTeamNotFound)
	}
	if !in.Actor.Role.Valid() {
		return Deny(ReasonUnknownRole)
	}
	if !isMember(in.Team, in.Actor.ID) {
		return Deny(ReasonNotTeamMember)
	}

	next := *in.Team
	if in.Change.Name != nil {
		next.Name = *in.Change.Name
	}
	if in.Change.Description != nil {
		next.Description = *in.Change.Description
	}
	return AllowTeam(&next)
}

// TeamDeleteInput is the snapshot needed to decide a team deletion.
type TeamDeleteInput struct {
	Actor Actor
	Team  *models.Team
}

// CheckTeamDelete decides whether the actor may delete the team.
func CheckTeamDelete(in TeamDeleteInput) Decision {
	if in.Team == nil {
		return Deny(ReasonTeamNotFound)
	}
	switch in.Actor.Role {
	case models.RoleAdmin:
		return AllowTeam(in.Team)
	case models.RoleLead:
		if isCreator(in.Team, in.Actor.ID) {
			return AllowTeam(in.Team)
		}
		return Deny(ReasonOnlyCreatorLeadOrAdminCanDelete)
	case models.RoleMember:
		return Deny(ReasonOnlyCreatorLeadOrAdminCanDelete)
	default:
		return Deny(ReasonUnknownRole)
	}
}

// TeamAddMemberInput is the snapshot needed to decide adding a member.
type TeamAddMemberInput struct {
	Actor  Actor
	Team   *models.Team
	UserID primitive.ObjectID
	// User is the user named by UserID, nil if it does not exist.
	User *models.User
}

// CheckTeamAddMember decides whether the actor may add the user to the team.
// On Allow the decision carries the team with the user appended.
func CheckTeamAddMember(in TeamAddMemberInput) Decision {
	if in.Actor.IsAdmin() && in.UserID == in.Actor.ID {
		return Deny(ReasonAdminCannotSelfAddToTeam)
	}
	if in.Team == nil {
		return Deny(ReasonTeamNotFound)
	}

	var allowed bool
	switch in.Actor.Role {
	case models.RoleAdmin:
		allowed = true
	case models.RoleLead:
		allowed = isCreator(in.Team, in.Actor.ID) || isMember(in.Team, in.Actor.ID)
	case models.RoleMember:
		allowed = isCreator(in.Team, in.Actor.ID)
	default:
		return Deny(ReasonUnknownRole)
	}
	if !allowed {
		return Deny(ReasonNotAuthorizedToAddMembers)
	}

	if in.User == nil || in.User.ID != in.UserID {
		return Deny(ReasonUserNotFound)
	}
	if isMember(in.Team, in.UserID) {
		return Deny(ReasonAlreadyMember)
	}

	next := *in.Team
	next.Members = append(append([]primitive.ObjectID{}, in.Team.Members...), in.UserID)
	return AllowTeam(&next)
}

// TeamViewInput is the snapshot needed to decide whether a team is visible.
type TeamViewInput struct {
	Actor Actor
	Team  *models.Team
}

// CheckTeamView decides whether the actor may read the team.
func CheckTeamView(in TeamViewInput) Decision {
	if in.Team == nil {
		return Deny(ReasonTeamNotFound)
	}
	switch in.Actor.Role {
	case models.RoleAdmin:
		return AllowTeam(in.Team)
	case models.RoleLead, models.RoleMember:
		if isMember(in.Team, in.Actor.ID) {
			return AllowTeam(in.Team)
		}
		return Deny(ReasonNotTeamMember)
	default:
		return Deny(ReasonUnknownRole)
	}
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids)+1)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
