package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-tracker/internal/dto"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/models"
)

func TestProvisioningHandler_Hierarchy(t *testing.T) {
	env := setupTestEnv(t, nil)
	adminToken, adminID := env.bootstrap(t)

	w := env.do(t, http.MethodPost, "/admin/"+adminID+"/managers", adminToken, map[string]interface{}{
		"username":  "manager",
		"email":     "Manager@Example.com",
		"password":  testPassword,
		"full_name": "Mona Manager",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var manager dto.UserDTO
	decodeData(t, w, &manager)
	assert.Equal(t, models.RoleManager, manager.Role)
	assert.Equal(t, "manager@example.com", manager.Email)
	require.NotNil(t, manager.CreatedBy)
	assert.Equal(t, adminID, manager.CreatedBy.String())
	assert.True(t, manager.IsActive)

	managerToken, managerID := env.login(t, "manager@example.com")
	employeeToken, employeeID := env.provision(t, "/manager/"+managerID+"/employees", managerToken, "employee")

	t.Run("duplicate username", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/manager/"+managerID+"/employees", managerToken, map[string]string{
			"username": "EMPLOYEE",
			"email":    "other@example.com",
			"password": testPassword,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apierrors.ErrCodeAlreadyExists, decodeError(t, w).Code)
	})

	t.Run("weak password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/manager/"+managerID+"/employees", managerToken, map[string]string{
			"username": "weakling",
			"email":    "weak@example.com",
			"password": "password",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("employees cannot provision", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/manager/"+managerID+"/employees", employeeToken, map[string]string{
			"username": "sneaky",
			"email":    "sneaky@example.com",
			"password": testPassword,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("manager lists employees", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/manager/"+managerID+"/employees", managerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list dto.UserListResponse
		decodeData(t, w, &list)
		require.Len(t, list.Users, 1)
		assert.Equal(t, employeeID, list.Users[0].ID.String())
	})

	t.Run("creating admin lists the manager's employees", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/manager/"+managerID+"/employees", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list dto.UserListResponse
		decodeData(t, w, &list)
		assert.Len(t, list.Users, 1)
	})

	t.Run("employee cannot list", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/manager/"+managerID+"/employees", employeeToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("get subordinate", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/manager/"+managerID+"/employees/"+employeeID, managerToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodGet, "/manager/"+managerID+"/employees/"+uuid.NewString(), managerToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = env.do(t, http.MethodGet, "/admin/"+adminID+"/managers/"+managerID, adminToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestProvisioningHandler_Activation(t *testing.T) {
	env := setupTestEnv(t, nil)
	adminToken, adminID := env.bootstrap(t)
	managerToken, managerID := env.provision(t, "/admin/"+adminID+"/managers", adminToken, "manager")
	_, employeeID := env.provision(t, "/manager/"+managerID+"/employees", managerToken, "employee")
	base := "/manager/" + managerID + "/users/"

	w := env.do(t, http.MethodPatch, base+employeeID+"/deactivate", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var user dto.UserDTO
	decodeData(t, w, &user)
	assert.False(t, user.IsActive)

	w = env.do(t, http.MethodPatch, base+employeeID+"/deactivate", managerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// deactivated employees drop out of the listing
	w = env.do(t, http.MethodGet, "/manager/"+managerID+"/employees", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.UserListResponse
	decodeData(t, w, &list)
	assert.Empty(t, list.Users)

	w = env.do(t, http.MethodPatch, base+employeeID+"/activate", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPatch, base+managerID+"/deactivate", managerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.ErrCodeSelfTarget, decodeError(t, w).Code)

	// an admin cannot reach employees directly
	w = env.do(t, http.MethodPatch, "/admin/"+adminID+"/users/"+employeeID+"/deactivate", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountHandler(t *testing.T) {
	env := setupTestEnv(t, nil)
	adminToken, adminID := env.bootstrap(t)
	managerToken, managerID := env.provision(t, "/admin/"+adminID+"/managers", adminToken, "manager")

	w := env.do(t, http.MethodPatch, "/manager/"+managerID+"/profile", managerToken, map[string]string{
		"full_name": "Mona Manager",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var user dto.UserDTO
	decodeData(t, w, &user)
	require.NotNil(t, user.FullName)
	assert.Equal(t, "Mona Manager", *user.FullName)

	w = env.do(t, http.MethodPatch, "/manager/"+managerID+"/profile", managerToken, map[string]string{
		"email": "admin@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPatch, "/admin/"+adminID+"/profile", managerToken, map[string]string{
		"full_name": "Not Me",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, "/manager/"+managerID+"/reset_password", managerToken, map[string]string{
		"current_password": "Wrong0ne!",
		"new_password":     "N3wPassw0rd!",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, "/manager/"+managerID+"/reset_password", managerToken, map[string]string{
		"current_password": testPassword,
		"new_password":     "N3wPassw0rd!",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "manager@example.com",
		"password": "N3wPassw0rd!",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
