package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	// StatusTodo is the default status of a new task.
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

// TaskStatuses lists every status in workflow order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusDone}

// TaskPriority represents how urgent a task is.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium" // default
	PriorityHigh   TaskPriority = "high"
)

// TaskPriorities lists every priority from lowest to highest.
var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

// Task represents a unit of work owned by a team.
type Task struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	Title       string              `json:"title" bson:"title" example:"Write release notes"`
	Description string              `json:"description" bson:"description" example:"Summarize the changes for v1.2"`
	Status      TaskStatus          `json:"status" bson:"status" example:"todo"`
	Priority    TaskPriority        `json:"priority" bson:"priority" example:"medium"`
	AssignedTo  *primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty" example:"507f1f77bcf86cd799439013"` // nil = unassigned
	TeamID      primitive.ObjectID  `json:"teamId" bson:"teamId" example:"507f1f77bcf86cd799439012"`
	DueDate     *time.Time          `json:"dueDate,omitempty" bson:"dueDate,omitempty" example:"2024-02-01T00:00:00Z"`
	CreatedBy   primitive.ObjectID  `json:"createdBy" bson:"createdBy" example:"507f1f77bcf86cd799439014"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// IsAssignedTo reports whether the task is currently assigned to userID.
func (t *Task) IsAssignedTo(userID primitive.ObjectID) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title       string       `json:"title" binding:"required,min=1,max=200" example:"Write release notes"`
	Description string       `json:"description" binding:"omitempty,max=2000" example:"Summarize the changes for v1.2"`
	Status      TaskStatus   `json:"status" binding:"omitempty,oneof=todo in_progress review done" example:"todo"`
	Priority    TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high" example:"medium"`
	AssignedTo  string       `json:"assignedTo" binding:"omitempty,objectid" example:"507f1f77bcf86cd799439013"`
	TeamID      string       `json:"teamId" binding:"required,objectid" example:"507f1f77bcf86cd799439012"`
	DueDate     *time.Time   `json:"dueDate" example:"2024-02-01T00:00:00Z"`
}

// UpdateTaskRequest is the payload for updating a task. Only fields present in
// the request body are applied; an explicit null assignedTo unassigns the task.
type UpdateTaskRequest struct {
	Title       *string       `json:"title" binding:"omitempty,min=1,max=200" example:"Write release notes"`
	Description *string       `json:"description" binding:"omitempty,max=2000" example:"Updated description"`
	Status      *TaskStatus   `json:"status" binding:"omitempty,oneof=todo in_progress review done" example:"in_progress"`
	Priority    *TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high" example:"high"`
	AssignedTo  *string       `json:"assignedTo" binding:"omitempty,objectid_or_empty" example:"507f1f77bcf86cd799439013"`
	TeamID      *string       `json:"teamId" binding:"omitempty,objectid" example:"507f1f77bcf86cd799439012"`
	DueDate     *time.Time    `json:"dueDate" example:"2024-02-01T00:00:00Z"`
}

// TaskFilter holds the query parameters for listing tasks.
type TaskFilter struct {
	Status     TaskStatus   `form:"status" binding:"omitempty,oneof=todo in_progress review done" example:"todo"`
	Priority   TaskPriority `form:"priority" binding:"omitempty,oneof=low medium high" example:"high"`
	TeamID     string       `form:"teamId" binding:"omitempty,objectid" example:"507f1f77bcf86cd799439012"`
	AssignedTo string       `form:"assignedTo" binding:"omitempty,objectid" example:"507f1f77bcf86cd799439013"`
	CreatedBy  string       `form:"createdBy" binding:"omitempty,objectid" example:"507f1f77bcf86cd799439014"`
	DueBefore  *time.Time   `form:"dueBefore" time_format:"2006-01-02T15:04:05Z07:00" example:"2024-03-01T00:00:00Z"`
	DueAfter   *time.Time   `form:"dueAfter" time_format:"2006-01-02T15:04:05Z07:00" example:"2024-01-01T00:00:00Z"`
	Page       int          `form:"page" binding:"omitempty,min=1" example:"1"`
	Limit      int          `form:"limit" binding:"omitempty,min=1,max=100" example:"10"`
	SortBy     string       `form:"sortBy" binding:"omitempty,oneof=createdAt updatedAt dueDate priority status title" example:"createdAt"`
	SortOrder  string       `form:"sortOrder" binding:"omitempty,oneof=asc desc" example:"desc"`
}

// TaskListResponse is the response for listing tasks.
type TaskListResponse struct {
	Items      []Task     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// TaskStats summarizes the tasks visible to the caller.
type TaskStats struct {
	Total      int64                  `json:"total" example:"42"`
	ByStatus   map[TaskStatus]int64   `json:"byStatus"`
	ByPriority map[TaskPriority]int64 `json:"byPriority"`
	ByTeam     []TeamTaskCount        `json:"byTeam"`
	TotalUsers *int64                 `json:"totalUsers,omitempty" example:"17"` // admins only
}

// TeamTaskCount is the number of tasks owned by one team.
type TeamTaskCount struct {
	TeamID   primitive.ObjectID `json:"teamId" bson:"_id" example:"507f1f77bcf86cd799439012"`
	TeamName string             `json:"teamName" bson:"teamName" example:"Engineering Team"`
	Count    int64              `json:"count" bson:"count" example:"12"`
}

// NewTaskStats returns stats with every status and priority bucket zeroed.
func NewTaskStats() *TaskStats {
	s := &TaskStats{
		ByStatus:   make(map[TaskStatus]int64, len(TaskStatuses)),
		ByPriority: make(map[TaskPriority]int64, len(TaskPriorities)),
		ByTeam:     []TeamTaskCount{},
	}
	for _, st := range TaskStatuses {
		s.ByStatus[st] = 0
	}
	for _, p := range TaskPriorities {
		s.ByPriority[p] = 0
	}
	return s
}
