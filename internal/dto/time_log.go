package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/services"
	"github.com/yukikurage/team-task-tracker/internal/utils"
)

// TimeLogDTO represents a time entry in API responses
type TimeLogDTO struct {
	ID        uuid.UUID `json:"uuid"`
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	Date      string    `json:"date"`
	Hours     string    `json:"hours"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// TimeLogListResponse represents a paginated list of time entries
type TimeLogListResponse struct {
	TimeLogs   []TimeLogDTO `json:"time_logs"`
	Pagination Pagination   `json:"pagination"`
}

// DailySummaryDTO reports the hours logged on a date
type DailySummaryDTO struct {
	Date           string `json:"date"`
	TotalHours     string `json:"total_hours"`
	RemainingHours string `json:"remaining_hours"`
}

// ToTimeLogDTO converts a TimeLog model to TimeLogDTO
func ToTimeLogDTO(entry models.TimeLog) TimeLogDTO {
	return TimeLogDTO{
		ID:        entry.ID,
		TaskID:    entry.TaskID,
		UserID:    entry.UserID,
		Date:      utils.FormatDate(entry.Date),
		Hours:     entry.Hours.StringFixed(constants.HoursPrecision),
		Notes:     entry.Notes,
		CreatedAt: entry.CreatedAt,
	}
}

// ToTimeLogListResponse converts entries and pagination metadata
func ToTimeLogListResponse(entries []models.TimeLog, pagination Pagination) TimeLogListResponse {
	items := make([]TimeLogDTO, len(entries))
	for i, e := range entries {
		items[i] = ToTimeLogDTO(e)
	}
	return TimeLogListResponse{TimeLogs: items, Pagination: pagination}
}

// ToDailySummaryDTO converts a daily summary
func ToDailySummaryDTO(summary services.DailySummary) DailySummaryDTO {
	return DailySummaryDTO{
		Date:           utils.FormatDate(summary.Date),
		TotalHours:     summary.Total.StringFixed(constants.HoursPrecision),
		RemainingHours: summary.Remaining.StringFixed(constants.HoursPrecision),
	}
}
