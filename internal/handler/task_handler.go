package handler

import (
	"bytes"
	"encoding/json"

	"taskboard/internal/authz"
	"taskboard/internal/models"
	"taskboard/internal/service"
	"taskboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var jsonNull = []byte("null")

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service service.TaskServicer
	log     logrus.FieldLogger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service service.TaskServicer, log logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{service: service, log: log}
}

// ListTasks godoc
// @Summary      List tasks
// @Description  Tasks in the caller's teams (every task for admins), filtered and paginated
// @Tags         tasks
// @Produce      json
// @Param        status      query     string  false  "Status filter"
// @Param        priority    query     string  false  "Priority filter"
// @Param        teamId      query     string  false  "Team filter; must be one of the caller's teams"
// @Param        assignedTo  query     string  false  "Assignee filter"
// @Param        createdBy   query     string  false  "Creator filter"
// @Param        dueBefore   query     string  false  "Due before (RFC 3339)"
// @Param        dueAfter    query     string  false  "Due after (RFC 3339)"
// @Param        page        query     int     false  "Page number (default: 1)"
// @Param        limit       query     int     false  "Items per page (default: 10, max: 100)"
// @Param        sortBy      query     string  false  "createdAt, updatedAt, dueDate, priority, status or title"
// @Param        sortOrder   query     string  false  "asc or desc"
// @Success      200         {object}  response.Response{data=models.TaskListResponse}
// @Failure      400         {object}  response.Response
// @Failure      401         {object}  response.Response
// @Failure      403         {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var filter models.TaskFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ListTasks(c.Request.Context(), actor, &filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, result)
}

// SearchTasks godoc
// @Summary      Search tasks
// @Description  Case-insensitive match on title and description within the caller's scope
// @Tags         tasks
// @Produce      json
// @Param        q    query     string  true  "Search text"
// @Success      200  {object}  response.Response{data=[]models.Task}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks/search [get]
func (h *TaskHandler) SearchTasks(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	tasks, err := h.service.SearchTasks(c.Request.Context(), actor, c.Query("q"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, tasks)
}

// GetTask godoc
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  response.Response{data=models.Task}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.service.GetTask(c.Request.Context(), actor, taskID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, task)
}

// CreateTask godoc
// @Summary      Create a task
// @Description  Leads create tasks in their own teams; admins in any team. Members cannot create tasks.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateTaskRequest  true  "Task details"
// @Success      201   {object}  response.Response{data=models.Task}
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Created(c, task)
}

// UpdateTask godoc
// @Summary      Update a task
// @Description  Only fields present in the body are applied. Members may only change the status of tasks assigned to them. A null assignedTo unassigns the task and a null dueDate clears it.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Task ID"
// @Param        body  body      models.UpdateTaskRequest  true  "Fields to change"
// @Success      200   {object}  response.Response{data=models.Task}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	var present map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&present, binding.JSON); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	change, err := taskChangeFrom(&req, present)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), actor, taskID, change)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, task)
}

// DeleteTask godoc
// @Summary      Delete a task
// @Description  The task's creator or an admin may delete it
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Security     BearerAuth
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), actor, taskID); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, gin.H{"message": "task deleted successfully"})
}

// taskChangeFrom converts a bound update request into a TaskChange. present
// holds every key of the raw body so that unknown keys and explicit nulls
// are visible to the authorization rules.
func taskChangeFrom(req *models.UpdateTaskRequest, present map[string]json.RawMessage) (authz.TaskChange, error) {
	change := authz.TaskChange{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Fields:      make([]string, 0, len(present)),
	}
	for key := range present {
		change.Fields = append(change.Fields, key)
	}

	if raw, ok := present[authz.FieldAssignedTo]; ok {
		switch {
		case bytes.Equal(bytes.TrimSpace(raw), jsonNull), req.AssignedTo == nil, *req.AssignedTo == "":
			change.Unassign = true
		default:
			id, err := primitive.ObjectIDFromHex(*req.AssignedTo)
			if err != nil {
				return authz.TaskChange{}, err
			}
			change.AssignedTo = &id
		}
	}
	if req.TeamID != nil {
		id, err := primitive.ObjectIDFromHex(*req.TeamID)
		if err != nil {
			return authz.TaskChange{}, err
		}
		change.TeamID = &id
	}
	if raw, ok := present[authz.FieldDueDate]; ok && bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		change.ClearDueDate = true
	}
	return change, nil
}
