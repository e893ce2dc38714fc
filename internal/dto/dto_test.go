package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/services"
	"github.com/yukikurage/team-task-tracker/internal/utils"
	"gorm.io/datatypes"
)

func TestToTimeLogDTO(t *testing.T) {
	entry := models.TimeLog{
		ID:    uuid.New(),
		Date:  datatypes.Date(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)),
		Hours: decimal.RequireFromString("4.5"),
	}

	got := ToTimeLogDTO(entry)
	assert.Equal(t, "2026-03-09", got.Date)
	assert.Equal(t, "4.50", got.Hours)

	summary := ToDailySummaryDTO(services.DailySummary{
		Date:      entry.Date,
		Total:     decimal.RequireFromString("10"),
		Remaining: decimal.Zero,
	})
	assert.Equal(t, "10.00", summary.TotalHours)
	assert.Equal(t, "0.00", summary.RemainingHours)
}

func TestToTaskDTO(t *testing.T) {
	due := datatypes.Date(time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC))
	task := models.Task{ID: uuid.New(), Title: "Q1 report", Status: models.TaskStatusPending, DueDate: &due}

	raw, err := json.Marshal(NewResponse("Task created", ToTaskDTO(task)))
	require.NoError(t, err)

	var body struct {
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Task created", body.Message)
	assert.Equal(t, task.ID.String(), body.Data["uuid"])
	assert.Equal(t, "pending", body.Data["status"])
	assert.Equal(t, "2030-01-31", body.Data["due_date"])
	assert.Nil(t, body.Data["assigned_to"])
}

func TestToUserListResponse(t *testing.T) {
	users := []models.User{{ID: uuid.New(), Username: "alice", Role: models.RoleEmployee, PasswordHash: "secret"}}

	resp := ToUserListResponse(users, utils.PaginationParams{Limit: 40}.Response(1))
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "alice", resp.Users[0].Username)
	assert.Equal(t, int64(1), resp.Pagination.Total)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
}
