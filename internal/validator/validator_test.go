package validator

import (
	"testing"

	"taskboard/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, Register(v))
	return v
}

func TestObjectID(t *testing.T) {
	v := newValidate(t)

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"valid lowercase", "507f1f77bcf86cd799439011", true},
		{"valid uppercase", "507F1F77BCF86CD799439011", true},
		{"too short", "507f1f77bcf86cd79943901", false},
		{"too long", "507f1f77bcf86cd7994390111", false},
		{"non hex", "507f1f77bcf86cd79943901z", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.value, "objectid")
			assert.Equal(t, tt.valid, err == nil)
		})
	}
}

func TestObjectIDOrEmpty(t *testing.T) {
	v := newValidate(t)

	assert.NoError(t, v.Var("", "objectid_or_empty"))
	assert.NoError(t, v.Var("507f1f77bcf86cd799439011", "objectid_or_empty"))
	assert.Error(t, v.Var("nope", "objectid_or_empty"))
}

func TestRole(t *testing.T) {
	v := newValidate(t)

	for _, role := range []string{"member", "lead", "admin"} {
		assert.NoError(t, v.Var(role, "role"), role)
	}
	for _, role := range []string{"", "Admin", "Lead", " lead", "MEMBER", "owner", "guest"} {
		assert.Error(t, v.Var(role, "role"), role)
	}
}

func TestRequestModels(t *testing.T) {
	v := newValidate(t)

	t.Run("update role request", func(t *testing.T) {
		assert.NoError(t, v.Struct(models.UpdateRoleRequest{Role: models.RoleLead}))
		assert.Error(t, v.Struct(models.UpdateRoleRequest{Role: "superuser"}))
		assert.Error(t, v.Struct(models.UpdateRoleRequest{Role: "Lead"}))
	})

	t.Run("create user role is case sensitive", func(t *testing.T) {
		req := models.CreateUserRequest{Email: "new@example.com", Password: "secret123", Name: "New User"}
		assert.NoError(t, v.Struct(req))

		req.Role = models.RoleLead
		assert.NoError(t, v.Struct(req))

		req.Role = "Lead"
		assert.Error(t, v.Struct(req))
	})

	t.Run("create team member ids", func(t *testing.T) {
		ok := models.CreateTeamRequest{Name: "Core", MemberIDs: []string{"507f1f77bcf86cd799439011"}}
		bad := models.CreateTeamRequest{Name: "Core", MemberIDs: []string{"507f1f77bcf86cd799439011", "x"}}

		assert.NoError(t, v.Struct(ok))
		assert.Error(t, v.Struct(bad))
	})

	t.Run("update task clears assignee with empty string", func(t *testing.T) {
		empty := ""
		bad := "x"

		assert.NoError(t, v.Struct(models.UpdateTaskRequest{AssignedTo: &empty}))
		assert.Error(t, v.Struct(models.UpdateTaskRequest{AssignedTo: &bad}))
	})
}

func TestRegisterCustomValidators(t *testing.T) {
	assert.NotPanics(t, RegisterCustomValidators)
}
