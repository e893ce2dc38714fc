package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	"github.com/yukikurage/team-task-tracker/internal/database"
	"github.com/yukikurage/team-task-tracker/internal/dto"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"github.com/yukikurage/team-task-tracker/internal/services"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "Passw0rd!"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	users  *services.UserService
}

func setupTestEnv(t *testing.T, drafter services.TaskDrafter) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(database.Models...))

	log := zap.NewNop()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	timeLogRepo := repository.NewTimeLogRepository(db)

	tokens := services.NewTokenIssuer("test-secret", "team-task-tracker", 30*time.Minute)
	authService := services.NewAuthService(userRepo, tokens, log)
	userService := services.NewUserService(userRepo, log)
	taskService := services.NewTaskService(taskRepo, userRepo, drafter, log)
	timeLogService := services.NewTimeLogService(timeLogRepo, taskRepo, userRepo, decimal.RequireFromString(constants.DefaultDailyHoursCap), log)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, Handlers{
		Auth:     NewAuthHandler(authService),
		Account:  NewAccountHandler(userService),
		Admin:    NewAdminHandler(userService),
		Manager:  NewManagerHandler(userService),
		Tasks:    NewTaskHandler(taskService),
		TimeLogs: NewTimeLogHandler(timeLogService),
	}, authService)

	return testEnv{db: db, router: r, users: userService}
}

// do sends a JSON request with an optional bearer token
func (env testEnv) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// login returns the bearer token and account id for the credentials
func (env testEnv) login(t *testing.T, email string) (string, string) {
	t.Helper()

	w := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token dto.TokenDTO
	decodeData(t, w, &token)
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken, token.User.ID.String()
}

// bootstrap creates the admin and returns its token and id
func (env testEnv) bootstrap(t *testing.T) (string, string) {
	t.Helper()

	_, err := env.users.BootstrapAdmin(services.CreateUserInput{
		Username: "admin",
		Email:    "admin@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	return env.login(t, "admin@example.com")
}

// provision creates a subordinate through the API and logs in as it
func (env testEnv) provision(t *testing.T, path, token, username string) (string, string) {
	t.Helper()

	w := env.do(t, http.MethodPost, path, token, map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return env.login(t, username+"@example.com")
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var resp struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}
