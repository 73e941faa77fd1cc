// Package models defines data structures for the application.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user in the system.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	Email        string             `json:"email" bson:"email" example:"user@example.com"`
	Password     string             `json:"-" bson:"password"` // "-" = never include in JSON response
	Name         string             `json:"name" bson:"name" example:"John Doe"`
	Role         Role               `json:"role" bson:"role" example:"member"`
	TokenVersion int                `json:"-" bson:"tokenVersion"` // bumped on logout, invalidates issued tokens
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// UserSummary is a minimal user representation for embedding in other responses.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id" example:"507f1f77bcf86cd799439011"`
	Name  string             `json:"name" example:"John Doe"`
	Email string             `json:"email" example:"user@example.com"`
	Role  Role               `json:"role" example:"member"`
}

// Summary returns the public summary of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// SignupRequest is the payload for self-service registration.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"secret123"`
	Name     string `json:"name" binding:"required,min=2" example:"John Doe"`
}

// CreateUserRequest is the payload for an admin creating a user.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"secret123"`
	Name     string `json:"name" binding:"required,min=2" example:"John Doe"`
	Role     Role   `json:"role" binding:"omitempty,role" example:"lead"`
}

// UpdateRoleRequest is the payload for changing a user's role.
type UpdateRoleRequest struct {
	Role Role `json:"role" binding:"required,role" example:"lead"`
}

// ChangePasswordRequest is the payload for changing the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required" example:"secret123"`
	NewPassword     string `json:"newPassword" binding:"required,min=6" example:"newsecret456"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// LoginResponse is the response after successful login or signup.
type LoginResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	User  User   `json:"user"`
}

// UserFilter holds the query parameters for listing users.
type UserFilter struct {
	Search string `form:"search" example:"jo"`
	Role   Role   `form:"role" example:"member"`
	Page   int    `form:"page" example:"1"`
	Limit  int    `form:"limit" example:"20"`
}

// UserListResponse is the response for listing users.
type UserListResponse struct {
	Items      []UserSummary `json:"items"`
	Pagination Pagination    `json:"pagination"`
}
