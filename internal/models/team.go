package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team represents a team in the system.
type Team struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	Name        string               `json:"name" bson:"name" example:"Engineering Team"`
	Description string               `json:"description" bson:"description" example:"Our engineering team workspace"`
	Members     []primitive.ObjectID `json:"members" bson:"members"`
	CreatedBy   primitive.ObjectID   `json:"createdBy" bson:"createdBy" example:"507f1f77bcf86cd799439012"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// HasMember reports whether userID is in the team's member set.
func (t *Team) HasMember(userID primitive.ObjectID) bool {
	for _, id := range t.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateTeamRequest is the payload for creating a team.
type CreateTeamRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=100" example:"Engineering Team"`
	Description string   `json:"description" binding:"omitempty,max=500" example:"Our engineering team workspace"`
	MemberIDs   []string `json:"memberIds" binding:"omitempty,dive,objectid" example:"507f1f77bcf86cd799439013"`
}

// UpdateTeamRequest is the payload for updating a team.
type UpdateTeamRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100" example:"Updated Team Name"`
	Description *string `json:"description" binding:"omitempty,max=500" example:"Updated description"`
}

// AddMemberRequest is the payload for adding a user to a team.
type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required,objectid" example:"507f1f77bcf86cd799439013"`
}

// TeamListResponse is the response for listing teams.
type TeamListResponse struct {
	Items      []Team     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Pagination contains pagination metadata.
type Pagination struct {
	Page       int `json:"page" example:"1"`
	Limit      int `json:"limit" example:"10"`
	TotalItems int `json:"totalItems" example:"42"`
	TotalPages int `json:"totalPages" example:"5"`
}

// NewPagination computes pagination metadata for a page of results.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		TotalItems: int(total),
		TotalPages: totalPages,
	}
}
