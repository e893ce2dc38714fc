package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-tracker/internal/database"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "Passw0rd!"

// fixedNow is a Monday afternoon in UTC
var fixedNow = time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	users    *UserService
	tasks    *TaskService
	timeLogs *TimeLogService
	auth     *AuthService
	tokens   *TokenIssuer

	admin    *models.User
	manager  *models.User
	employee *models.User
}

func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// newFixture wires every service over one database and provisions an
// admin, a manager created by it and an employee created by the manager.
func newFixture(t *testing.T, drafter TaskDrafter) *fixture {
	t.Helper()

	db := setupTestDB(t)
	log := zap.NewNop()

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	timeLogRepo := repository.NewTimeLogRepository(db)

	f := &fixture{
		db:       db,
		users:    NewUserService(userRepo, log),
		tasks:    NewTaskService(taskRepo, userRepo, drafter, log),
		timeLogs: NewTimeLogService(timeLogRepo, taskRepo, userRepo, decimal.RequireFromString("10.00"), log),
		tokens:   NewTokenIssuer("test-secret", "team-task-tracker", 30*time.Minute),
	}
	f.auth = NewAuthService(userRepo, f.tokens, log)
	f.tasks.now = func() time.Time { return fixedNow }
	f.timeLogs.now = func() time.Time { return fixedNow }
	f.tokens.now = func() time.Time { return fixedNow }

	var err error
	f.admin, err = f.users.BootstrapAdmin(CreateUserInput{
		Username: "admin",
		Email:    "admin@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)

	f.manager = f.provision(t, f.admin, "manager")
	f.employee = f.provision(t, f.manager, "employee")
	return f
}

// provision creates an account of the creator's subordinate role
func (f *fixture) provision(t *testing.T, creator *models.User, username string) *models.User {
	t.Helper()

	user, err := f.users.CreateSubordinate(creator, creator.ID, creator.Role, CreateUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) assignedTask(t *testing.T, assignee *models.User) *models.Task {
	t.Helper()

	input := CreateTaskInput{Title: "Q1 report"}
	if assignee != nil {
		input.AssignedTo = &assignee.ID
	}
	task, err := f.tasks.CreateTask(f.manager, f.manager.ID, input)
	require.NoError(t, err)
	return task
}
