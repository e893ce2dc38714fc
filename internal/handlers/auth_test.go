package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-tracker/internal/dto"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/models"
)

func TestHealth(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t, nil)
	token, adminID := env.bootstrap(t)

	w := env.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me dto.UserDTO
	decodeData(t, w, &me)
	assert.Equal(t, adminID, me.ID.String())
	assert.Equal(t, models.RoleAdmin, me.Role)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	env := setupTestEnv(t, nil)
	env.bootstrap(t)

	t.Run("wrong password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "admin@example.com",
			"password": "Wrong0ne!",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apierrors.ErrCodeInvalidCredentials, decodeError(t, w).Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "ghost@example.com",
			"password": testPassword,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apierrors.ErrCodeInvalidCredentials, decodeError(t, w).Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_InactiveAccount(t *testing.T) {
	env := setupTestEnv(t, nil)
	adminToken, adminID := env.bootstrap(t)
	managerToken, managerID := env.provision(t, "/admin/"+adminID+"/managers", adminToken, "manager")

	w := env.do(t, http.MethodPatch, "/admin/"+adminID+"/users/"+managerID+"/deactivate", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the issued token stops working immediately
	w = env.do(t, http.MethodGet, "/auth/me", managerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeInactiveAccount, decodeError(t, w).Code)

	w = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "manager@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeInactiveAccount, decodeError(t, w).Code)
}

func TestAuthHandler_SessionCookie(t *testing.T) {
	env := setupTestEnv(t, nil)
	env.bootstrap(t)

	w := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// the cleared cookie carries no credential
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Unauthenticated(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeUnauthorized, decodeError(t, w).Code)
}
