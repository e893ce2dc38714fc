package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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
	ErrFutureDate       = errors.New("date cannot be in the future")
	ErrInvalidHours     = errors.New("hours must be greater than 0 and at most the daily cap, with at most two decimal places")
	ErrDailyCapExceeded = errors.New("daily cap exceeded")
	ErrNotesTooLong     = errors.New("notes must be at most 500 characters")
	ErrTimeLogNotFound  = errors.New("time log not found")
)

// ValidateEntry checks the date and hours of a single entry against today and
// the daily cap
func ValidateEntry(date, today datatypes.Date, hours, dailyCap decimal.Decimal) error {
	if time.Time(date).After(time.Time(today)) {
		return ErrFutureDate
	}
	if !hours.IsPositive() ||
		hours.GreaterThan(dailyCap) ||
		!hours.Equal(hours.Round(constants.HoursPrecision)) {
		return ErrInvalidHours
	}
	return nil
}

// CheckDailyCap rejects an entry that would push the day's total over the cap
func CheckDailyCap(prior, hours, dailyCap decimal.Decimal) error {
	if prior.Add(hours).GreaterThan(dailyCap) {
		return ErrDailyCapExceeded
	}
	return nil
}

// TimeLogService records employee hours against tasks
type TimeLogService struct {
	timeLogRepo repository.TimeLogRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	dailyCap    decimal.Decimal
	log         *zap.Logger
	now         func() time.Time
}

// NewTimeLogService creates a new TimeLogService
func NewTimeLogService(timeLogRepo repository.TimeLogRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository, dailyCap decimal.Decimal, log *zap.Logger) *TimeLogService {
	return &TimeLogService{
		timeLogRepo: timeLogRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		dailyCap:    dailyCap,
		log:         log,
		now:         time.Now,
	}
}

// SubmitTimeLogInput represents one time entry
type SubmitTimeLogInput struct {
	TaskID uuid.UUID
	Date   datatypes.Date
	Hours  decimal.Decimal
	Notes  string
}

// Submit records hours for the employee. Checks run in order: date, hours,
// daily cap, then task assignment.
func (s *TimeLogService) Submit(actor *models.User, employeeID uuid.UUID, input SubmitTimeLogInput) (*models.TimeLog, error) {
	if err := policy.RequireSelf(actor, employeeID, models.RoleEmployee); err != nil {
		return nil, err
	}
	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return nil, err
	}
	if err := ValidateEntry(input.Date, utils.DateOf(s.now()), input.Hours, s.dailyCap); err != nil {
		return nil, err
	}

	taskErr := s.ensureAssigned(actor, input.TaskID)
	if taskErr != nil && !errors.Is(taskErr, ErrTaskNotFound) {
		return nil, taskErr
	}

	entry := &models.TimeLog{
		TaskID: input.TaskID,
		UserID: actor.ID,
		Date:   input.Date,
		Hours:  input.Hours,
		Notes:  notes,
	}
	err = s.timeLogRepo.CreateWithinCap(entry, func(prior decimal.Decimal) error {
		if err := CheckDailyCap(prior, input.Hours, s.dailyCap); err != nil {
			return err
		}
		return taskErr
	})
	if err != nil {
		return nil, s.mutationError("create time log", err)
	}
	return entry, nil
}

// EditTimeLogInput holds the optional fields of an entry
type EditTimeLogInput struct {
	Date  *datatypes.Date
	Hours *decimal.Decimal
	Notes *string
}

// Edit changes an entry of the employee and re-validates the daily cap with
// the entry itself left out of the prior total
func (s *TimeLogService) Edit(actor *models.User, employeeID, logID uuid.UUID, input EditTimeLogInput) (*models.TimeLog, error) {
	if err := policy.RequireSelf(actor, employeeID, models.RoleEmployee); err != nil {
		return nil, err
	}
	if input.Date == nil && input.Hours == nil && input.Notes == nil {
		return nil, ErrNoFieldsToUpdate
	}
	var notes string
	if input.Notes != nil {
		n, err := normalizeNotes(*input.Notes)
		if err != nil {
			return nil, err
		}
		notes = n
	}

	today := utils.DateOf(s.now())
	var hours decimal.Decimal
	entry, err := s.timeLogRepo.UpdateWithinCap(logID, func(e *models.TimeLog) error {
		if err := policy.CanAccessTimeLog(actor, e); err != nil {
			return ErrTimeLogNotFound
		}
		if input.Date != nil {
			e.Date = *input.Date
		}
		if input.Hours != nil {
			e.Hours = *input.Hours
		}
		if input.Notes != nil {
			e.Notes = notes
		}
		hours = e.Hours
		return ValidateEntry(e.Date, today, e.Hours, s.dailyCap)
	}, func(prior decimal.Decimal) error {
		return CheckDailyCap(prior, hours, s.dailyCap)
	})
	if err != nil {
		return nil, s.mutationError("update time log", err)
	}
	return entry, nil
}

// Delete removes an entry of the employee
func (s *TimeLogService) Delete(actor *models.User, employeeID, logID uuid.UUID) error {
	if err := policy.RequireSelf(actor, employeeID, models.RoleEmployee); err != nil {
		return err
	}

	entry, err := s.timeLogRepo.FindByID(logID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return storeError(s.log, "find time log", err)
	}
	if err := policy.CanAccessTimeLog(actor, entry); err != nil {
		return ErrTimeLogNotFound
	}

	if err := s.timeLogRepo.Delete(logID); err != nil {
		return s.mutationError("delete time log", err)
	}
	return nil
}

// ListTimeLogsInput represents filters for listing entries
type ListTimeLogsInput struct {
	Date       *datatypes.Date
	From       *datatypes.Date
	To         *datatypes.Date
	Pagination utils.PaginationParams
}

// List returns the employee's own entries
func (s *TimeLogService) List(actor *models.User, employeeID uuid.UUID, input ListTimeLogsInput) ([]models.TimeLog, int64, error) {
	if err := policy.RequireSelf(actor, employeeID, models.RoleEmployee); err != nil {
		return nil, 0, err
	}
	return s.list(employeeID, input)
}

// ListForManager returns the entries of an employee created by the manager
func (s *TimeLogService) ListForManager(actor *models.User, managerID, employeeID uuid.UUID, input ListTimeLogsInput) ([]models.TimeLog, int64, error) {
	if err := policy.RequireSelf(actor, managerID, models.RoleManager); err != nil {
		return nil, 0, err
	}

	employee, err := s.userRepo.FindByID(employeeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, storeError(s.log, "find employee", err)
	}
	if err := policy.CanViewSubordinate(actor, employee); err != nil {
		return nil, 0, err
	}
	return s.list(employeeID, input)
}

// DailySummary reports the hours logged on a date and what remains under the cap
type DailySummary struct {
	Date      datatypes.Date
	Total     decimal.Decimal
	Remaining decimal.Decimal
}

// Summary returns the employee's total for date. A nil date means today.
func (s *TimeLogService) Summary(actor *models.User, employeeID uuid.UUID, date *datatypes.Date) (*DailySummary, error) {
	if err := policy.RequireSelf(actor, employeeID, models.RoleEmployee); err != nil {
		return nil, err
	}

	day := utils.DateOf(s.now())
	if date != nil {
		day = *date
	}

	total, err := s.timeLogRepo.DailyTotal(actor.ID, day)
	if err != nil {
		return nil, storeError(s.log, "sum time logs", err)
	}

	remaining := s.dailyCap.Sub(total)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return &DailySummary{Date: day, Total: total, Remaining: remaining}, nil
}

func (s *TimeLogService) list(userID uuid.UUID, input ListTimeLogsInput) ([]models.TimeLog, int64, error) {
	entries, total, err := s.timeLogRepo.List(repository.TimeLogFilter{
		UserID:     userID,
		Date:       input.Date,
		From:       input.From,
		To:         input.To,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, storeError(s.log, "list time logs", err)
	}
	return entries, total, nil
}

// ensureAssigned returns ErrTaskNotFound unless the task exists and is
// assigned to the actor
func (s *TimeLogService) ensureAssigned(actor *models.User, taskID uuid.UUID) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return storeError(s.log, "find task", err)
	}
	if !task.IsAssignedTo(actor.ID) {
		return ErrTaskNotFound
	}
	return nil
}

func (s *TimeLogService) mutationError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrTimeLogNotFound
	case errors.Is(err, ErrDailyCapExceeded),
		errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrTimeLogNotFound),
		errors.Is(err, ErrFutureDate),
		errors.Is(err, ErrInvalidHours):
		return err
	default:
		return storeError(s.log, op, err)
	}
}

func normalizeNotes(raw string) (string, error) {
	notes := strings.TrimSpace(raw)
	if len([]rune(notes)) > constants.MaxNotesLength {
		return "", ErrNotesTooLong
	}
	return notes, nil
}
