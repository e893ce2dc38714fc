package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-tracker/internal/dto"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/services"
)

// createUserRequest is the body for provisioning a subordinate account
type createUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	FullName *string `json:"full_name"`
}

func (r createUserRequest) input() services.CreateUserInput {
	return services.CreateUserInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		FullName: r.FullName,
	}
}

// ProvisioningHandler serves the endpoints through which admins manage
// managers and managers manage employees. ownerParam names the path
// parameter of the acting account and ownerRole its role.
type ProvisioningHandler struct {
	userService *services.UserService
	ownerParam  string
	ownerRole   models.Role
	targetParam string
}

// NewAdminHandler creates the handler for admin -> manager provisioning
func NewAdminHandler(userService *services.UserService) *ProvisioningHandler {
	return &ProvisioningHandler{
		userService: userService,
		ownerParam:  "admin_id",
		ownerRole:   models.RoleAdmin,
		targetParam: "manager_id",
	}
}

// NewManagerHandler creates the handler for manager -> employee provisioning
func NewManagerHandler(userService *services.UserService) *ProvisioningHandler {
	return &ProvisioningHandler{
		userService: userService,
		ownerParam:  "manager_id",
		ownerRole:   models.RoleManager,
		targetParam: "employee_id",
	}
}

// Create provisions a subordinate account
func (h *ProvisioningHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	ownerID, ok := uuidParam(c, h.ownerParam)
	if !ok {
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.CreateSubordinate(actor, ownerID, h.ownerRole, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	role, _ := h.ownerRole.Subordinate()
	c.JSON(http.StatusCreated, dto.NewResponse(string(role)+" created", dto.ToUserDTO(*user)))
}

// List returns the accounts provisioned by the owner
func (h *ProvisioningHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	ownerID, ok := uuidParam(c, h.ownerParam)
	if !ok {
		return
	}
	params, ok := pagination(c)
	if !ok {
		return
	}

	users, total, err := h.userService.ListSubordinates(actor, ownerID, h.ownerRole, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse("Accounts retrieved", dto.ToUserListResponse(users, params.Response(total))))
}

// Get returns one account provisioned by the owner
func (h *ProvisioningHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	ownerID, ok := uuidParam(c, h.ownerParam)
	if !ok {
		return
	}
	targetID, ok := uuidParam(c, h.targetParam)
	if !ok {
		return
	}

	user, err := h.userService.GetSubordinate(actor, ownerID, h.ownerRole, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse("Account retrieved", dto.ToUserDTO(*user)))
}

// SetActive returns a handler that activates or deactivates a subordinate
func (h *ProvisioningHandler) SetActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := requireActor(c)
		if !ok {
			return
		}
		ownerID, ok := uuidParam(c, h.ownerParam)
		if !ok {
			return
		}
		targetID, ok := uuidParam(c, h.targetParam)
		if !ok {
			return
		}

		user, err := h.userService.SetActive(actor, ownerID, h.ownerRole, targetID, active)
		if err != nil {
			respondError(c, err)
			return
		}

		message := "Account deactivated"
		if active {
			message = "Account activated"
		}
		c.JSON(http.StatusOK, dto.NewResponse(message, dto.ToUserDTO(*user)))
	}
}
