package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TimeLog stores the hours of one entry. Daily totals are summed at read time.
type TimeLog struct {
	ID        uuid.UUID       `gorm:"type:char(36);primarykey" json:"uuid"`
	TaskID    uuid.UUID       `gorm:"type:char(36);not null;index" json:"task_id"`
	UserID    uuid.UUID       `gorm:"type:char(36);not null;index:idx_time_logs_user_date,priority:1" json:"user_id"`
	Date      datatypes.Date  `gorm:"not null;index:idx_time_logs_user_date,priority:2" json:"date"`
	Hours     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"hours"`
	Notes     string          `gorm:"type:text" json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (l *TimeLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
