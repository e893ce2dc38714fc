package repository

import (
	"github.com/google/uuid"
	"github.com/yukikurage/team-task-tracker/internal/database"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateWithAudit inserts the task and its first audit entry atomically
func (r *GormTaskRepository) CreateWithAudit(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return appendTaskLog(tx, task)
	})
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination, newest first
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{})

	if filter.CreatorID != nil {
		query = query.Where("tasks.created_by = ?", *filter.CreatorID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("tasks.assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := []models.Task{}
	if err := query.Order("tasks.created_at DESC").
		Order("tasks.id ASC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateWithAudit runs the read-modify-write of a task under a row lock and
// records the resulting status in the same transaction
func (r *GormTaskRepository) UpdateWithAudit(id uuid.UUID, mutate func(task *models.Task) error) (*models.Task, error) {
	var task models.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(database.ForUpdate).First(&task, "id = ?", id).Error; err != nil {
			return err
		}
		if err := mutate(&task); err != nil {
			return err
		}
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return appendTaskLog(tx, &task)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListLogs returns the audit trail of a task, oldest first
func (r *GormTaskRepository) ListLogs(taskID uuid.UUID) ([]models.TaskLog, error) {
	logs := []models.TaskLog{}
	err := r.db.Where("task_id = ?", taskID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&logs).Error
	return logs, err
}

func appendTaskLog(tx *gorm.DB, task *models.Task) error {
	return tx.Create(&models.TaskLog{
		TaskID: task.ID,
		Status: task.Status,
	}).Error
}
