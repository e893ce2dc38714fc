package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type Task struct {
	ID          uuid.UUID       `gorm:"type:char(36);primarykey" json:"uuid"`
	Title       string          `gorm:"type:varchar(255);not null" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Status      TaskStatus      `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedBy   uuid.UUID       `gorm:"type:char(36);not null;index" json:"created_by"`
	AssignedTo  *uuid.UUID      `gorm:"type:char(36);index" json:"assigned_to"`
	StartDate   *time.Time      `json:"start_date"`
	DueDate     *datatypes.Date `json:"due_date"`
	CompletedAt *time.Time      `json:"completed_at"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *Task) IsAssignedTo(id uuid.UUID) bool {
	return t.AssignedTo != nil && *t.AssignedTo == id
}
