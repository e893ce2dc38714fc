package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yukikurage/team-task-tracker/internal/dto"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/services"
	"github.com/yukikurage/team-task-tracker/internal/utils"
	"gorm.io/datatypes"
)

// TimeLogHandler serves time-log endpoints
type TimeLogHandler struct {
	timeLogService *services.TimeLogService
}

// NewTimeLogHandler creates a new TimeLogHandler
func NewTimeLogHandler(timeLogService *services.TimeLogService) *TimeLogHandler {
	return &TimeLogHandler{timeLogService: timeLogService}
}

// Submit records hours against a task assigned to the employee
func (h *TimeLogHandler) Submit(c *gin.Context) {
	type SubmitTimeLogRequest struct {
		TaskID string           `json:"task_id" binding:"required"`
		Date   string           `json:"date" binding:"required"`
		Hours  *decimal.Decimal `json:"hours" binding:"required"`
		Notes  string           `json:"notes"`
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	employeeID, ok := uuidParam(c, "employee_id")
	if !ok {
		return
	}

	var req SubmitTimeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task_id")
		return
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	entry, err := h.timeLogService.Submit(actor, employeeID, services.SubmitTimeLogInput{
		TaskID: taskID,
		Date:   date,
		Hours:  *req.Hours,
		Notes:  req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewResponse("Time log created", dto.ToTimeLogDTO(*entry)))
}

// Edit changes an entry of the employee
func (h *TimeLogHandler) Edit(c *gin.Context) {
	type EditTimeLogRequest struct {
		Date  *string          `json:"date"`
		Hours *decimal.Decimal `json:"hours"`
		Notes *string          `json:"notes"`
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	employeeID, ok := uuidParam(c, "employee_id")
	if !ok {
		return
	}
	logID, ok := uuidParam(c, "log_id")
	if !ok {
		return
	}

	var req EditTimeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	input := services.EditTimeLogInput{Hours: req.Hours, Notes: req.Notes}
	if req.Date != nil {
		date, err := utils.ParseDate(*req.Date)
		if err != nil {
			respondError(c, err)
			return
		}
		input.Date = &date
	}

	entry, err := h.timeLogService.Edit(actor, employeeID, logID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse("Time log updated", dto.ToTimeLogDTO(*entry)))
}

// Delete removes an entry of the employee
func (h *TimeLogHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	employeeID, ok := uuidParam(c, "employee_id")
	if !ok {
		return
	}
	logID, ok := uuidParam(c, "log_id")
	if !ok {
		return
	}

	if err := h.timeLogService.Delete(actor, employeeID, logID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse("Time log deleted", nil))
}

// List returns the employee's own entries
func (h *TimeLogHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	employeeID, ok := uuidParam(c, "employee_id")
	if !ok {
		return
	}
	input, ok := listTimeLogsInput(c)
	if !ok {
		return
	}

	entries, total, err := h.timeLogService.List(actor, employeeID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse("Time logs retrieved",
		dto.ToTimeLogListResponse(entries, input.Pagination.Response(total))))
}

// ListForManager returns the entries of an employee created by the manager
func (h *TimeLogHandler) ListForManager(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	managerID, ok := uuidParam(c, "manager_id")
	if !ok {
		return
	}
	employeeID, ok := uuidParam(c, "employee_id")
	if !ok {
		return
	}
	input, ok := listTimeLogsInput(c)
	if !ok {
		return
	}

	entries, total, err := h.timeLogService.ListForManager(actor, managerID, employeeID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse("Time logs retrieved",
		dto.ToTimeLogListResponse(entries, input.Pagination.Response(total))))
}

// Summary reports the hours logged on a date
func (h *TimeLogHandler) Summary(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	employeeID, ok := uuidParam(c, "employee_id")
	if !ok {
		return
	}

	var date *datatypes.Date
	if raw := c.Query("date"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		date = &d
	}

	summary, err := h.timeLogService.Summary(actor, employeeID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse("Daily summary", dto.ToDailySummaryDTO(*summary)))
}

func listTimeLogsInput(c *gin.Context) (services.ListTimeLogsInput, bool) {
	var input services.ListTimeLogsInput

	params, ok := pagination(c)
	if !ok {
		return input, false
	}
	input.Pagination = params

	for key, target := range map[string]**datatypes.Date{
		"date": &input.Date,
		"from": &input.From,
		"to":   &input.To,
	} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		d, err := utils.ParseDate(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid "+key+": "+err.Error())
			return input, false
		}
		*target = &d
	}
	return input, true
}
