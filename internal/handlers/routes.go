package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-tracker/internal/middleware"
	"github.com/yukikurage/team-task-tracker/internal/models"
)

// Handlers groups every HTTP handler of the API
type Handlers struct {
	Auth     *AuthHandler
	Account  *AccountHandler
	Admin    *ProvisioningHandler
	Manager  *ProvisioningHandler
	Tasks    *TaskHandler
	TimeLogs *TimeLogHandler
}

// RegisterRoutes mounts the API on r. Session middleware must already be installed.
func RegisterRoutes(r *gin.Engine, h Handlers, auth middleware.Authenticator) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Team task tracker API is running",
		})
	})

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/logout", h.Auth.Logout)
		authRoutes.GET("/me", middleware.RequireAuth(auth), h.Auth.GetCurrentUser)
	}

	protected := r.Group("")
	protected.Use(middleware.RequireAuth(auth))

	// Admin routes
	admin := protected.Group("/admin/:admin_id")
	admin.Use(middleware.RequireSelf("admin_id", models.RoleAdmin))
	{
		admin.PATCH("/profile", h.Account.UpdateProfile(models.RoleAdmin))
		admin.PUT("/reset_password", h.Account.ResetPassword(models.RoleAdmin))
		admin.POST("/managers", h.Admin.Create)
		admin.GET("/managers", h.Admin.List)
		admin.GET("/managers/:manager_id", h.Admin.Get)
		admin.PATCH("/users/:manager_id/deactivate", h.Admin.SetActive(false))
		admin.PATCH("/users/:manager_id/activate", h.Admin.SetActive(true))
	}

	// Manager routes. Listing employees is also open to the manager's creator.
	protected.GET("/manager/:manager_id/employees",
		middleware.RequireRole(models.RoleManager, models.RoleAdmin), h.Manager.List)

	manager := protected.Group("/manager/:manager_id")
	manager.Use(middleware.RequireSelf("manager_id", models.RoleManager))
	{
		manager.PATCH("/profile", h.Account.UpdateProfile(models.RoleManager))
		manager.PUT("/reset_password", h.Account.ResetPassword(models.RoleManager))
		manager.POST("/employees", h.Manager.Create)
		manager.GET("/employees/:employee_id", h.Manager.Get)
		manager.GET("/employees/:employee_id/logs", h.TimeLogs.ListForManager)
		manager.PATCH("/users/:employee_id/deactivate", h.Manager.SetActive(false))
		manager.PATCH("/users/:employee_id/activate", h.Manager.SetActive(true))

		manager.POST("/tasks", h.Tasks.CreateTask)
		manager.GET("/tasks", h.Tasks.ListTasks("manager_id", models.RoleManager))
		manager.POST("/tasks/generate", h.Tasks.GenerateTasks)
		manager.GET("/tasks/:task_id", h.Tasks.GetTask("manager_id", models.RoleManager))
		manager.PATCH("/tasks/:task_id", h.Tasks.UpdateTask)
		manager.DELETE("/tasks/:task_id", h.Tasks.DeleteTask)
		manager.GET("/tasks/:task_id/logs", h.Tasks.TaskHistory("manager_id", models.RoleManager))
	}

	// Employee routes
	employee := protected.Group("/employee/:employee_id")
	employee.Use(middleware.RequireSelf("employee_id", models.RoleEmployee))
	{
		employee.PATCH("/profile", h.Account.UpdateProfile(models.RoleEmployee))
		employee.PUT("/reset_password", h.Account.ResetPassword(models.RoleEmployee))

		employee.GET("/tasks", h.Tasks.ListTasks("employee_id", models.RoleEmployee))
		employee.GET("/tasks/:task_id", h.Tasks.GetTask("employee_id", models.RoleEmployee))
		employee.PATCH("/tasks/:task_id", h.Tasks.UpdateTaskStatus)
		employee.GET("/tasks/:task_id/logs", h.Tasks.TaskHistory("employee_id", models.RoleEmployee))

		employee.POST("/logs", h.TimeLogs.Submit)
		employee.GET("/logs", h.TimeLogs.List)
		employee.GET("/logs/summary", h.TimeLogs.Summary)
		employee.PATCH("/logs/:log_id", h.TimeLogs.Edit)
		employee.DELETE("/logs/:log_id", h.TimeLogs.Delete)
	}
}
