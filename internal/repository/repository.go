package repository

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/utils"
	"gorm.io/datatypes"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByEmail finds a user by email, ignoring case
	FindByEmail(email string) (*models.User, error)

	// UsernameTaken reports whether another user already holds username
	UsernameTaken(username string, exclude uuid.UUID) (bool, error)

	// EmailTaken reports whether another user already holds email
	EmailTaken(email string, exclude uuid.UUID) (bool, error)

	// ListByCreator lists accounts provisioned by a creator
	ListByCreator(filter UserFilter) ([]models.User, int64, error)

	// CountByRole counts accounts holding role
	CountByRole(role models.Role) (int64, error)

	// UpdateWithLock locks the user row, applies mutate and saves the result.
	// An error from mutate rolls back and is returned unchanged.
	UpdateWithLock(id uuid.UUID, mutate func(user *models.User) error) (*models.User, error)
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	CreatorID  uuid.UUID
	Role       models.Role
	ActiveOnly bool
	Pagination utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// CreateWithAudit inserts task together with its first audit entry
	CreateWithAudit(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uuid.UUID) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// UpdateWithAudit locks the task row, applies mutate, saves it and appends
	// an audit entry with the resulting status. An error from mutate rolls back
	// and is returned unchanged.
	UpdateWithAudit(id uuid.UUID, mutate func(task *models.Task) error) (*models.Task, error)

	// Delete soft deletes a task; its audit entries are kept
	Delete(id uuid.UUID) error

	// ListLogs returns the audit trail of a task, oldest first
	ListLogs(taskID uuid.UUID) ([]models.TaskLog, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	CreatorID  *uuid.UUID
	AssignedTo *uuid.UUID
	Status     *models.TaskStatus
	Pagination utils.PaginationParams
}

// CapCheck receives the hours already logged for the entry's user and date,
// excluding the entry itself, and rejects the write by returning an error.
type CapCheck func(prior decimal.Decimal) error

// TimeLogRepository defines the interface for time log data access
type TimeLogRepository interface {
	// CreateWithinCap serializes on the owning user row, runs check against the
	// prior daily total and inserts entry when check passes.
	CreateWithinCap(entry *models.TimeLog, check CapCheck) error

	// UpdateWithinCap locks the entry and its owning user, applies mutate and
	// runs check against the daily total of the mutated date without the entry.
	UpdateWithinCap(id uuid.UUID, mutate func(entry *models.TimeLog) error, check CapCheck) (*models.TimeLog, error)

	// FindByID finds a time log by ID
	FindByID(id uuid.UUID) (*models.TimeLog, error)

	// List retrieves time logs with filtering and pagination
	List(filter TimeLogFilter) ([]models.TimeLog, int64, error)

	// DailyTotal sums the hours logged by userID on date
	DailyTotal(userID uuid.UUID, date datatypes.Date) (decimal.Decimal, error)

	// Delete removes a time log
	Delete(id uuid.UUID) error
}

// TimeLogFilter holds filtering options for listing time logs
type TimeLogFilter struct {
	UserID     uuid.UUID
	Date       *datatypes.Date
	From       *datatypes.Date
	To         *datatypes.Date
	Pagination utils.PaginationParams
}
