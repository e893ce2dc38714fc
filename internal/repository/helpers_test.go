package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-tracker/internal/database"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role, creator *models.User) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     true,
	}
	if creator != nil {
		id := creator.ID
		user.CreatedBy = &id
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTask(t *testing.T, repo TaskRepository, manager *models.User, assignee *models.User) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:     "Q1 report",
		Status:    models.TaskStatusPending,
		CreatedBy: manager.ID,
	}
	if assignee != nil {
		id := assignee.ID
		task.AssignedTo = &id
	}
	require.NoError(t, repo.CreateWithAudit(task))
	require.NotEqual(t, uuid.Nil, task.ID)
	return task
}
