package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskLog is one append-only entry of a task's status history.
type TaskLog struct {
	ID        uint64     `gorm:"primarykey;autoIncrement" json:"id"`
	TaskID    uuid.UUID  `gorm:"type:char(36);not null;index" json:"task_id"`
	Status    TaskStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}
