package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-management-api/internal/authz"
	"github.com/yukikurage/team-management-api/internal/dto"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/services"
	"github.com/yukikurage/team-management-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks visible to the current user.
// Supports status, priority, team_id and assigned_to filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{Pagination: params}

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := models.ParseTaskStatus(statusStr)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		input.Status = &status
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		priority, err := models.ParseTaskPriority(priorityStr)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		input.Priority = &priority
	}

	var err error
	if input.TeamID, err = queryUint(c, "team_id"); err != nil {
		apierrors.BadRequest(c, "Invalid team_id")
		return
	}
	if input.AssignedToID, err = queryUint(c, "assigned_to"); err != nil {
		apierrors.BadRequest(c, "Invalid assigned_to")
		return
	}

	tasks, total, err := h.taskService.ListTasks(identity, input)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a single task with its relations
func (h *TaskHandler) GetTask(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := requireID(c, "task")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(identity, id)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task in a team
func (h *TaskHandler) CreateTask(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title        string     `json:"title" binding:"required,max=255"`
		Description  string     `json:"description" binding:"required"`
		Priority     string     `json:"priority"`
		DueDate      *time.Time `json:"due_date"`
		TeamID       uint64     `json:"team_id" binding:"required"`
		AssignedToID *uint64    `json:"assigned_to_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		TeamID:       req.TeamID,
		AssignedToID: req.AssignedToID,
	}
	if req.Priority != "" {
		priority := models.TaskPriority(req.Priority)
		input.Priority = &priority
	}

	task, err := h.taskService.CreateTask(identity, input)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Employees may only change status;
// other fields they send are ignored.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := requireID(c, "task")
	if !ok {
		return
	}

	var body patchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	// Fields an employee cannot change are dropped before they are decoded.
	if !identity.Role.IsPrivileged() {
		body = body.Only("status")
	}

	changes, err := taskChangesFromBody(body)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(identity, id, changes)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := requireID(c, "task")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(identity, id); err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.RespondMessage(c, http.StatusOK, "Task deleted successfully")
}

func taskChangesFromBody(body patchBody) (authz.TaskChanges, error) {
	var changes authz.TaskChanges
	var err error

	if changes.Title, err = body.String("title"); err != nil {
		return changes, err
	}
	if changes.Description, err = body.String("description"); err != nil {
		return changes, err
	}

	status, err := body.String("status")
	if err != nil {
		return changes, err
	}
	if status != nil {
		s := models.TaskStatus(*status)
		changes.Status = &s
	}

	priority, err := body.String("priority")
	if err != nil {
		return changes, err
	}
	if priority != nil {
		p := models.TaskPriority(*priority)
		changes.Priority = &p
	}

	if changes.DueDate, changes.ClearDueDate, err = body.Time("due_date"); err != nil {
		return changes, err
	}
	// A task always belongs to a team, so a null team_id is ignored.
	if changes.TeamID, _, err = body.Uint("team_id"); err != nil {
		return changes, err
	}
	if changes.AssignedToID, changes.ClearAssignee, err = body.Uint("assigned_to_id"); err != nil {
		return changes, err
	}

	return changes, nil
}

func queryUint(c *gin.Context, key string) (*uint64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
