package handler

import (
	"taskboard/internal/models"
	"taskboard/internal/service"
	"taskboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service service.UserServicer
	log     logrus.FieldLogger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service service.UserServicer, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

// SearchByEmail godoc
// @Summary      Look up a user by email
// @Description  Exact, case-insensitive email lookup. Leads and admins only. Returns a null user when there is no match.
// @Tags         users
// @Produce      json
// @Param        email  query     string  true  "Email address"
// @Success      200    {object}  response.Response{data=map[string]models.UserSummary}
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Security     BearerAuth
// @Router       /users/search [get]
func (h *UserHandler) SearchByEmail(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	email := c.Query("email")
	if email == "" {
		response.BadRequest(c, "email is required")
		return
	}

	user, err := h.service.SearchByEmail(c.Request.Context(), actor, email)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, gin.H{"user": user})
}

// ListUsers godoc
// @Summary      List users
// @Description  Browse the user directory. Non-admins must search and may only filter by role=member.
// @Tags         users
// @Produce      json
// @Param        search  query     string  false  "Name or email fragment (min 2 chars)"
// @Param        role    query     string  false  "Role filter"
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 20, max: 50)"
// @Success      200     {object}  response.Response{data=models.UserListResponse}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var filter models.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.List(c.Request.Context(), actor, &filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, result)
}

// CreateUser godoc
// @Summary      Create a user
// @Description  Admins create member or lead accounts
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateUserRequest  true  "User details"
// @Success      201      {object}  response.Response{data=models.UserSummary}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Created(c, user)
}

// UpdateRole godoc
// @Summary      Change a user's role
// @Description  Admins change another user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "User ID"
// @Param        request  body      models.UpdateRoleRequest  true  "New role"
// @Success      200      {object}  response.Response{data=models.UserSummary}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Security     BearerAuth
// @Router       /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.service.UpdateRole(c.Request.Context(), actor, userID, req.Role)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, user)
}

// ChangePassword godoc
// @Summary      Change password
// @Description  Change the caller's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChangePasswordRequest  true  "Current and new password"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Security     BearerAuth
// @Router       /users/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), actor, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, gin.H{"message": "password updated"})
}
