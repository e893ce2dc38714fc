package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/services"
	"github.com/yukikurage/team-task-tracker/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uuid.UUID         `json:"uuid"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	CreatedBy   uuid.UUID         `json:"created_by"`
	AssignedTo  *uuid.UUID        `json:"assigned_to"`
	StartDate   *time.Time        `json:"start_date"`
	DueDate     *string           `json:"due_date"`
	CompletedAt *time.Time        `json:"completed_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO  `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

// TaskLogDTO represents one audit entry of a task
type TaskLogDTO struct {
	ID        uint64            `json:"id"`
	TaskID    uuid.UUID         `json:"task_id"`
	Status    models.TaskStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// TaskDraftDTO represents an AI suggested task
type TaskDraftDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedBy:   task.CreatedBy,
		AssignedTo:  task.AssignedTo,
		StartDate:   task.StartDate,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.DueDate != nil {
		due := utils.FormatDate(*task.DueDate)
		dto.DueDate = &due
	}
	return dto
}

// ToTaskListResponse converts tasks and pagination metadata
func ToTaskListResponse(tasks []models.Task, pagination Pagination) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		items[i] = ToTaskDTO(t)
	}
	return TaskListResponse{Tasks: items, Pagination: pagination}
}

// ToTaskLogDTOs converts audit entries
func ToTaskLogDTOs(logs []models.TaskLog) []TaskLogDTO {
	items := make([]TaskLogDTO, len(logs))
	for i, l := range logs {
		items[i] = TaskLogDTO{
			ID:        l.ID,
			TaskID:    l.TaskID,
			Status:    l.Status,
			CreatedAt: l.CreatedAt,
		}
	}
	return items
}

// ToTaskDraftDTOs converts AI drafts
func ToTaskDraftDTOs(drafts []services.TaskDraft) []TaskDraftDTO {
	items := make([]TaskDraftDTO, len(drafts))
	for i, d := range drafts {
		items[i] = TaskDraftDTO{
			Title:       d.Title,
			Description: d.Description,
			DueDate:     d.DueDate,
		}
	}
	return items
}
