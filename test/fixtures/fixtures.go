// Package fixtures provides test data builders for unit and integration tests.
package fixtures

import (
	"fmt"
	"time"

	"taskboard/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ===== User Fixtures =====

// UserBuilder provides fluent API for building test users.
type UserBuilder struct {
	user models.User
}

// NewUser creates a new UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		user: models.User{
			ID:        primitive.NewObjectID(),
			Name:      "Test User",
			Email:     fmt.Sprintf("test-%s@example.com", primitive.NewObjectID().Hex()[:8]),
			Password:  "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy", // "password123" hashed
			Role:      models.RoleMember,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
}

func (b *UserBuilder) WithID(id primitive.ObjectID) *UserBuilder {
	b.user.ID = id
	return b
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.user.Password = password
	return b
}

func (b *UserBuilder) WithRole(role models.Role) *UserBuilder {
	b.user.Role = role
	return b
}

func (b *UserBuilder) WithTokenVersion(v int) *UserBuilder {
	b.user.TokenVersion = v
	return b
}

// AsLead sets the lead role.
func (b *UserBuilder) AsLead() *UserBuilder {
	return b.WithRole(models.RoleLead)
}

// AsAdmin sets the admin role.
func (b *UserBuilder) AsAdmin() *UserBuilder {
	return b.WithRole(models.RoleAdmin)
}

func (b *UserBuilder) Build() models.User {
	return b.user
}

func (b *UserBuilder) BuildPtr() *models.User {
	u := b.user
	return &u
}

// ===== Team Fixtures =====

// TeamBuilder provides fluent API for building test teams.
type TeamBuilder struct {
	team models.Team
}

// NewTeam creates a new TeamBuilder with sensible defaults. The team has a
// random creator who is also its only member.
func NewTeam() *TeamBuilder {
	creator := primitive.NewObjectID()
	return &TeamBuilder{
		team: models.Team{
			ID:          primitive.NewObjectID(),
			Name:        "Test Team",
			Description: "A test team",
			Members:     []primitive.ObjectID{creator},
			CreatedBy:   creator,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		},
	}
}

func (b *TeamBuilder) WithID(id primitive.ObjectID) *TeamBuilder {
	b.team.ID = id
	return b
}

func (b *TeamBuilder) WithName(name string) *TeamBuilder {
	b.team.Name = name
	return b
}

// WithCreatedBy sets the creator and adds them to the member set.
func (b *TeamBuilder) WithCreatedBy(userID primitive.ObjectID) *TeamBuilder {
	b.team.CreatedBy = userID
	return b.WithMembers(userID)
}

// WithMembers adds users to the member set.
func (b *TeamBuilder) WithMembers(userIDs ...primitive.ObjectID) *TeamBuilder {
	for _, id := range userIDs {
		if !b.team.HasMember(id) {
			b.team.Members = append(b.team.Members, id)
		}
	}
	return b
}

// WithoutMembers empties the member set, creator included.
func (b *TeamBuilder) WithoutMembers() *TeamBuilder {
	b.team.Members = []primitive.ObjectID{}
	return b
}

func (b *TeamBuilder) Build() models.Team {
	return b.team
}

func (b *TeamBuilder) BuildPtr() *models.Team {
	t := b.team
	t.Members = append([]primitive.ObjectID{}, b.team.Members...)
	return &t
}

// ===== Task Fixtures =====

// TaskBuilder provides fluent API for building test tasks.
type TaskBuilder struct {
	task models.Task
}

// NewTask creates a new TaskBuilder with sensible defaults.
func NewTask() *TaskBuilder {
	return &TaskBuilder{
		task: models.Task{
			ID:          primitive.NewObjectID(),
			Title:       "Test Task",
			Description: "A test task",
			Status:      models.StatusTodo,
			Priority:    models.PriorityMedium,
			TeamID:      primitive.NewObjectID(),
			CreatedBy:   primitive.NewObjectID(),
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		},
	}
}

func (b *TaskBuilder) WithID(id primitive.ObjectID) *TaskBuilder {
	b.task.ID = id
	return b
}

func (b *TaskBuilder) WithTitle(title string) *TaskBuilder {
	b.task.Title = title
	return b
}

func (b *TaskBuilder) WithTeamID(teamID primitive.ObjectID) *TaskBuilder {
	b.task.TeamID = teamID
	return b
}

func (b *TaskBuilder) WithCreatedBy(userID primitive.ObjectID) *TaskBuilder {
	b.task.CreatedBy = userID
	return b
}

func (b *TaskBuilder) WithAssignedTo(userID primitive.ObjectID) *TaskBuilder {
	b.task.AssignedTo = &userID
	return b
}

func (b *TaskBuilder) WithStatus(status models.TaskStatus) *TaskBuilder {
	b.task.Status = status
	return b
}

func (b *TaskBuilder) WithPriority(priority models.TaskPriority) *TaskBuilder {
	b.task.Priority = priority
	return b
}

func (b *TaskBuilder) WithDueDate(due time.Time) *TaskBuilder {
	b.task.DueDate = &due
	return b
}

func (b *TaskBuilder) Build() models.Task {
	return b.task
}

func (b *TaskBuilder) BuildPtr() *models.Task {
	t := b.task
	return &t
}

// ===== Helpers =====

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
