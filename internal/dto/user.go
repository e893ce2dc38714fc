package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/team-task-tracker/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uuid.UUID   `json:"uuid"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FullName  *string     `json:"full_name"`
	Role      models.Role `json:"role"`
	CreatedBy *uuid.UUID  `json:"created_by"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO  `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// TokenDTO carries an issued bearer credential
type TokenDTO struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		CreatedBy: user.CreatedBy,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserListResponse converts users and pagination metadata
func ToUserListResponse(users []models.User, pagination Pagination) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, u := range users {
		items[i] = ToUserDTO(u)
	}
	return UserListResponse{Users: items, Pagination: pagination}
}
