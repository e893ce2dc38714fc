package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-tracker/internal/dto"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/services"
)

// AccountHandler serves self-service profile and password endpoints for
// every role.
type AccountHandler struct {
	userService *services.UserService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(userService *services.UserService) *AccountHandler {
	return &AccountHandler{userService: userService}
}

// UpdateProfile returns a handler updating the profile of the account in the
// "<role>_id" path parameter, which must be the actor holding role.
func (h *AccountHandler) UpdateProfile(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		type UpdateProfileRequest struct {
			Username *string `json:"username"`
			Email    *string `json:"email"`
			FullName *string `json:"full_name" binding:"omitempty,max=255"`
		}

		actor, ok := requireActor(c)
		if !ok {
			return
		}
		subjectID, ok := uuidParam(c, string(role)+"_id")
		if !ok {
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		user, err := h.userService.UpdateProfile(actor, subjectID, role, services.ProfileInput{
			Username: req.Username,
			Email:    req.Email,
			FullName: req.FullName,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, dto.NewResponse("Profile updated", dto.ToUserDTO(*user)))
	}
}

// ResetPassword returns a handler replacing the password of the account in
// the "<role>_id" path parameter.
func (h *AccountHandler) ResetPassword(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		type ResetPasswordRequest struct {
			CurrentPassword string `json:"current_password" binding:"required"`
			NewPassword     string `json:"new_password" binding:"required"`
		}

		actor, ok := requireActor(c)
		if !ok {
			return
		}
		subjectID, ok := uuidParam(c, string(role)+"_id")
		if !ok {
			return
		}

		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		if err := h.userService.ResetPassword(actor, subjectID, role, services.ResetPasswordInput{
			CurrentPassword: req.CurrentPassword,
			NewPassword:     req.NewPassword,
		}); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, dto.NewResponse("Password updated", nil))
	}
}
