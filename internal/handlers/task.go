package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/team-task-tracker/internal/dto"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/services"
	"github.com/yukikurage/team-task-tracker/internal/utils"
	"gorm.io/datatypes"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a pending task owned by the manager
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		AssignedTo  *string    `json:"assigned_to"`
		StartDate   *time.Time `json:"start_date"`
		DueDate     *string    `json:"due_date"`
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	managerID, ok := uuidParam(c, "manager_id")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	assignee, ok := optionalUUID(c, "assigned_to", req.AssignedTo)
	if !ok {
		return
	}
	dueDate, ok := optionalDate(c, "due_date", req.DueDate)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(actor, managerID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  assignee,
		StartDate:   req.StartDate,
		DueDate:     dueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewResponse("Task created", dto.ToTaskDTO(*task)))
}

// UpdateTask changes title, description, assignee or due date
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		AssignedTo  *string `json:"assigned_to"`
		DueDate     *string `json:"due_date"`
		Status      *string `json:"status"`
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	managerID, ok := uuidParam(c, "manager_id")
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "task_id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Status != nil {
		apierrors.BadRequest(c, "Task status is updated by the assigned employee")
		return
	}

	assignee, ok := optionalUUID(c, "assigned_to", req.AssignedTo)
	if !ok {
		return
	}
	dueDate, ok := optionalDate(c, "due_date", req.DueDate)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTaskAsManager(actor, managerID, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  assignee,
		DueDate:     dueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse("Task updated", dto.ToTaskDTO(*task)))
}

// UpdateTaskStatus lets the assigned employee change the status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	employeeID, ok := uuidParam(c, "employee_id")
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "task_id")
	if !ok {
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	fields := make([]string, 0, len(body))
	for field := range body {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	status, _ := body["status"].(string)

	task, err := h.taskService.UpdateTaskStatus(actor, employeeID, taskID, fields, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse("Task status updated", dto.ToTaskDTO(*task)))
}

// ListTasks returns a handler listing the tasks of the account addressed by
// param: tasks created by a manager or assigned to an employee
func (h *TaskHandler) ListTasks(param string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := requireActor(c)
		if !ok {
			return
		}
		ownerID, ok := uuidParam(c, param)
		if !ok {
			return
		}
		params, ok := pagination(c)
		if !ok {
			return
		}

		input := services.ListTasksInput{Pagination: params}
		if raw := c.Query("status"); raw != "" {
			status, err := services.ParseStatus(raw)
			if err != nil {
				respondError(c, err)
				return
			}
			input.Status = &status
		}

		tasks, total, err := h.taskService.ListTasks(actor, ownerID, role, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, dto.NewResponse("Tasks retrieved", dto.ToTaskListResponse(tasks, params.Response(total))))
	}
}

// GetTask returns a handler for a single task visible to the account in param
func (h *TaskHandler) GetTask(param string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := requireActor(c)
		if !ok {
			return
		}
		ownerID, ok := uuidParam(c, param)
		if !ok {
			return
		}
		taskID, ok := uuidParam(c, "task_id")
		if !ok {
			return
		}

		task, err := h.taskService.GetTask(actor, ownerID, role, taskID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, dto.NewResponse("Task retrieved", dto.ToTaskDTO(*task)))
	}
}

// TaskHistory returns a handler for the audit trail of a task
func (h *TaskHandler) TaskHistory(param string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := requireActor(c)
		if !ok {
			return
		}
		ownerID, ok := uuidParam(c, param)
		if !ok {
			return
		}
		taskID, ok := uuidParam(c, "task_id")
		if !ok {
			return
		}

		logs, err := h.taskService.TaskHistory(actor, ownerID, role, taskID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, dto.NewResponse("Task history retrieved", dto.ToTaskLogDTOs(logs)))
	}
}

// DeleteTask soft deletes a task created by the manager
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	managerID, ok := uuidParam(c, "manager_id")
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "task_id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(actor, managerID, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse("Task deleted", nil))
}

// GenerateTasks generates task suggestions from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	managerID, ok := uuidParam(c, "manager_id")
	if !ok {
		return
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	drafts, err := h.taskService.GenerateDrafts(c.Request.Context(), actor, managerID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse("Task drafts generated", gin.H{
		"tasks": dto.ToTaskDraftDTOs(drafts),
	}))
}

func optionalUUID(c *gin.Context, field string, raw *string) (*uuid.UUID, bool) {
	if raw == nil {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+field)
		return nil, false
	}
	return &id, true
}

func optionalDate(c *gin.Context, field string, raw *string) (*datatypes.Date, bool) {
	if raw == nil {
		return nil, true
	}
	d, err := utils.ParseDate(*raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+field+": "+err.Error())
		return nil, false
	}
	return &d, true
}
