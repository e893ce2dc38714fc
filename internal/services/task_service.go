package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/policy"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"github.com/yukikurage/team-task-tracker/internal/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskCompleted          = errors.New("completed tasks cannot be modified")
	ErrInvalidStatus          = errors.New("status must be one of pending, in_progress, completed")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleTooLong           = errors.New("title must be at most 255 characters")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAITextRequired         = errors.New("text is required")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
	ErrAITooManyTasks         = fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
)

var statusAliases = map[string]models.TaskStatus{
	"pending":     models.TaskStatusPending,
	"in-progress": models.TaskStatusInProgress,
	"in progress": models.TaskStatusInProgress,
	"in_progress": models.TaskStatusInProgress,
	"completed":   models.TaskStatusCompleted,
}

// ParseStatus maps free-text status input to its canonical state
func ParseStatus(raw string) (models.TaskStatus, error) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// TaskService handles the task lifecycle
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	drafter  TaskDrafter
	log      *zap.Logger
	now      func() time.Time
}

// NewTaskService creates a new TaskService. drafter may be nil.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, drafter TaskDrafter, log *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		drafter:  drafter,
		log:      log,
		now:      time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	AssignedTo  *uuid.UUID
	StartDate   *time.Time
	DueDate     *datatypes.Date
}

// UpdateTaskInput represents the fields a manager may change
type UpdateTaskInput struct {
	Title       *string
	Description *string
	AssignedTo  *uuid.UUID
	DueDate     *datatypes.Date
}

// CreateTask creates a pending task owned by the manager
func (s *TaskService) CreateTask(actor *models.User, managerID uuid.UUID, input CreateTaskInput) (*models.Task, error) {
	if err := policy.RequireSelf(actor, managerID, models.RoleManager); err != nil {
		return nil, err
	}

	title, err := normalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if input.AssignedTo != nil {
		if err := s.ensureAssignable(actor, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	startDate := s.now().UTC()
	if input.StartDate != nil {
		startDate = input.StartDate.UTC()
	}

	task := &models.Task{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      models.TaskStatusPending,
		CreatedBy:   actor.ID,
		AssignedTo:  input.AssignedTo,
		StartDate:   &startDate,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.CreateWithAudit(task); err != nil {
		return nil, storeError(s.log, "create task", err)
	}
	return task, nil
}

// UpdateTaskAsManager changes title, description, assignee or due date.
// Reassigning to a different employee resets the task to pending.
func (s *TaskService) UpdateTaskAsManager(actor *models.User, managerID, taskID uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	if err := policy.RequireSelf(actor, managerID, models.RoleManager); err != nil {
		return nil, err
	}
	if input.Title == nil && input.Description == nil && input.AssignedTo == nil && input.DueDate == nil {
		return nil, ErrNoFieldsToUpdate
	}

	var title string
	if input.Title != nil {
		t, err := normalizeTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		title = t
	}

	current, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanManageTask(actor, current); err != nil {
		return nil, err
	}
	if current.Status == models.TaskStatusCompleted {
		return nil, ErrTaskCompleted
	}
	if input.AssignedTo != nil {
		if err := s.ensureAssignable(actor, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	task, err := s.taskRepo.UpdateWithAudit(taskID, func(t *models.Task) error {
		if err := policy.CanManageTask(actor, t); err != nil {
			return err
		}
		if t.Status == models.TaskStatusCompleted {
			return ErrTaskCompleted
		}
		if input.Title != nil {
			t.Title = title
		}
		if input.Description != nil {
			t.Description = strings.TrimSpace(*input.Description)
		}
		if input.DueDate != nil {
			t.DueDate = input.DueDate
		}
		if input.AssignedTo != nil && !t.IsAssignedTo(*input.AssignedTo) {
			assignee := *input.AssignedTo
			t.AssignedTo = &assignee
			t.Status = models.TaskStatusPending
			t.CompletedAt = nil
		}
		return nil
	})
	if err != nil {
		return nil, s.mutationError("update task", err)
	}
	return task, nil
}

// UpdateTaskStatus lets the assigned employee move the task through its states.
// fields lists the request fields so that anything besides status is refused.
func (s *TaskService) UpdateTaskStatus(actor *models.User, employeeID, taskID uuid.UUID, fields []string, rawStatus string) (*models.Task, error) {
	if err := policy.RequireSelf(actor, employeeID, models.RoleEmployee); err != nil {
		return nil, err
	}
	if err := policy.CanUpdateTaskAsEmployee(actor, &models.Task{AssignedTo: &actor.ID}, fields); err != nil {
		return nil, err
	}
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.UpdateWithAudit(taskID, func(t *models.Task) error {
		if err := policy.CanUpdateTaskAsEmployee(actor, t, fields); err != nil {
			return err
		}
		if t.Status == models.TaskStatusCompleted {
			return ErrTaskCompleted
		}
		t.Status = status
		if status == models.TaskStatusCompleted {
			completedAt := s.now().UTC()
			t.CompletedAt = &completedAt
		}
		return nil
	})
	if err != nil {
		return nil, s.mutationError("update task status", err)
	}

	s.log.Info("Task status changed",
		zap.String("task_id", task.ID.String()),
		zap.String("status", string(task.Status)),
		zap.String("actor_id", actor.ID.String()))
	return task, nil
}

// GetTask returns a task visible to the owner addressed in the path
func (s *TaskService) GetTask(actor *models.User, ownerID uuid.UUID, ownerRole models.Role, taskID uuid.UUID) (*models.Task, error) {
	if err := policy.RequireSelf(actor, ownerID, ownerRole); err != nil {
		return nil, err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewTask(actor, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status     *models.TaskStatus
	Pagination utils.PaginationParams
}

// ListTasks returns tasks created by a manager or assigned to an employee
func (s *TaskService) ListTasks(actor *models.User, ownerID uuid.UUID, ownerRole models.Role, input ListTasksInput) ([]models.Task, int64, error) {
	if err := policy.RequireSelf(actor, ownerID, ownerRole); err != nil {
		return nil, 0, err
	}

	filter := repository.TaskFilter{
		Status:     input.Status,
		Pagination: input.Pagination,
	}
	switch ownerRole {
	case models.RoleManager:
		filter.CreatorID = &actor.ID
	case models.RoleEmployee:
		filter.AssignedTo = &actor.ID
	default:
		return nil, 0, policy.ErrForbidden
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, storeError(s.log, "list tasks", err)
	}
	return tasks, total, nil
}

// DeleteTask soft deletes a task created by the manager
func (s *TaskService) DeleteTask(actor *models.User, managerID, taskID uuid.UUID) error {
	if _, err := s.GetTask(actor, managerID, models.RoleManager, taskID); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return storeError(s.log, "delete task", err)
	}
	return nil
}

// TaskHistory returns the audit trail of a task visible to the owner
func (s *TaskService) TaskHistory(actor *models.User, ownerID uuid.UUID, ownerRole models.Role, taskID uuid.UUID) ([]models.TaskLog, error) {
	if _, err := s.GetTask(actor, ownerID, ownerRole, taskID); err != nil {
		return nil, err
	}
	logs, err := s.taskRepo.ListLogs(taskID)
	if err != nil {
		return nil, storeError(s.log, "list task logs", err)
	}
	return logs, nil
}

// GenerateDrafts uses AI to suggest tasks from text. Nothing is persisted.
func (s *TaskService) GenerateDrafts(ctx context.Context, actor *models.User, managerID uuid.UUID, text string) ([]TaskDraft, error) {
	if err := policy.RequireSelf(actor, managerID, models.RoleManager); err != nil {
		return nil, err
	}
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrAITextRequired
	}

	drafts, err := s.drafter.DraftTasks(ctx, text)
	if err != nil {
		s.log.Error("Task drafting failed", zap.Error(err))
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		return nil, ErrAITooManyTasks
	}

	valid := make([]TaskDraft, 0, len(drafts))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		draft.Title = strings.TrimSpace(draft.Title)
		if draft.Title == "" || len([]rune(draft.Title)) > constants.MaxTitleLength {
			continue
		}
		if draft.DueDate != nil && draft.DueDate.Before(cutoff) {
			draft.DueDate = nil
		}
		valid = append(valid, draft)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}
	return valid, nil
}

func (s *TaskService) findTask(taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storeError(s.log, "find task", err)
	}
	return task, nil
}

func (s *TaskService) ensureAssignable(actor *models.User, employeeID uuid.UUID) error {
	employee, err := s.userRepo.FindByID(employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.ErrInvalidAssignee
		}
		return storeError(s.log, "find assignee", err)
	}
	return policy.CanAssign(actor, employee)
}

func (s *TaskService) mutationError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrTaskNotFound
	case errors.Is(err, policy.ErrForbidden),
		errors.Is(err, policy.ErrNotFound),
		errors.Is(err, policy.ErrFieldNotPermitted),
		errors.Is(err, ErrTaskCompleted):
		return err
	default:
		return storeError(s.log, op, err)
	}
}

func normalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", ErrTitleRequired
	}
	if len([]rune(title)) > constants.MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}
