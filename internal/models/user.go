package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Subordinate returns the role this role provisions, if any.
func (r Role) Subordinate() (Role, bool) {
	switch r {
	case RoleAdmin:
		return RoleManager, true
	case RoleManager:
		return RoleEmployee, true
	default:
		return "", false
	}
}

// Superior returns the role expected as creator of this role.
func (r Role) Superior() (Role, bool) {
	switch r {
	case RoleManager:
		return RoleAdmin, true
	case RoleEmployee:
		return RoleManager, true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

type User struct {
	ID           uuid.UUID  `gorm:"type:char(36);primarykey" json:"uuid"`
	Username     string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName     *string    `gorm:"type:varchar(255)" json:"full_name"`
	Role         Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	CreatedBy    *uuid.UUID `gorm:"type:char(36);index" json:"created_by"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsCreatedBy reports whether id provisioned this user.
func (u *User) IsCreatedBy(id uuid.UUID) bool {
	return u.CreatedBy != nil && *u.CreatedBy == id
}
