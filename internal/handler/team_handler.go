package handler

import (
	"strconv"

	"taskboard/internal/models"
	"taskboard/internal/service"
	"taskboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamHandler handles HTTP requests for team operations.
type TeamHandler struct {
	service service.TeamServicer
	log     logrus.FieldLogger
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(service service.TeamServicer, log logrus.FieldLogger) *TeamHandler {
	return &TeamHandler{service: service, log: log}
}

// CreateTeam godoc
// @Summary      Create a new team
// @Description  Admins create a team. The creator always joins the member set.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateTeamRequest  true  "Team details"
// @Success      201   {object}  response.Response{data=models.Team}
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Security     BearerAuth
// @Router       /teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req models.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.service.CreateTeam(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Created(c, team)
}

// ListTeams godoc
// @Summary      List teams
// @Description  Admins see every team; everyone else the teams they belong to
// @Tags         teams
// @Produce      json
// @Param        page   query     int  false  "Page number (default: 1)"
// @Param        limit  query     int  false  "Items per page (default: 10, max: 100)"
// @Success      200    {object}  response.Response{data=models.TeamListResponse}
// @Failure      401    {object}  response.Response
// @Security     BearerAuth
// @Router       /teams [get]
func (h *TeamHandler) ListTeams(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.service.ListTeams(c.Request.Context(), actor, page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, result)
}

// GetTeam godoc
// @Summary      Get team details
// @Tags         teams
// @Produce      json
// @Param        id   path      string  true  "Team ID"
// @Success      200  {object}  response.Response{data=models.Team}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{id} [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	team, err := h.service.GetTeam(c.Request.Context(), actor, teamID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, team)
}

// UpdateTeam godoc
// @Summary      Update team
// @Description  Members of the team and admins may rename a team or change its description
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Team ID"
// @Param        body  body      models.UpdateTeamRequest  true  "Team update details"
// @Success      200   {object}  response.Response{data=models.Team}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{id} [put]
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.service.UpdateTeam(c.Request.Context(), actor, teamID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, team)
}

// DeleteTeam godoc
// @Summary      Delete team
// @Description  Admins, or the lead who created the team, delete it together with its tasks
// @Tags         teams
// @Produce      json
// @Param        id   path      string  true  "Team ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{id} [delete]
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTeam(c.Request.Context(), actor, teamID); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, gin.H{"message": "team deleted successfully"})
}

// AddMember godoc
// @Summary      Add a team member
// @Description  Team members and admins add a user to the team. Admins cannot add themselves.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Team ID"
// @Param        body  body      models.AddMemberRequest  true  "User to add"
// @Success      200   {object}  response.Response{data=models.Team}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Security     BearerAuth
// @Router       /teams/{id}/members [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		response.BadRequest(c, "invalid user id format")
		return
	}

	team, err := h.service.AddMember(c.Request.Context(), actor, teamID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, team)
}
