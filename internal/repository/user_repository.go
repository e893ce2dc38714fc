package repository

import (
	"github.com/google/uuid"
	"github.com/yukikurage/team-task-tracker/internal/database"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/utils"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	user.Email = utils.NormalizeEmail(user.Email)
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email, ignoring case
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("LOWER(email) = ?", utils.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameTaken reports whether another user already holds username
func (r *GormUserRepository) UsernameTaken(username string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?) AND id <> ?", username, exclude).
		Count(&count).Error
	return count > 0, err
}

// EmailTaken reports whether another user already holds email
func (r *GormUserRepository) EmailTaken(email string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("LOWER(email) = ? AND id <> ?", utils.NormalizeEmail(email), exclude).
		Count(&count).Error
	return count > 0, err
}

// ListByCreator lists accounts provisioned by a creator, ordered by username
func (r *GormUserRepository) ListByCreator(filter UserFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{}).Where("created_by = ?", filter.CreatorID)
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := []models.User{}
	if err := query.Order("username ASC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CountByRole counts accounts holding role
func (r *GormUserRepository) CountByRole(role models.Role) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// UpdateWithLock locks the user row for the read-modify-write sequence
func (r *GormUserRepository) UpdateWithLock(id uuid.UUID, mutate func(user *models.User) error) (*models.User, error) {
	var user models.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(database.ForUpdate).First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		if err := mutate(&user); err != nil {
			return err
		}
		user.Email = utils.NormalizeEmail(user.Email)
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
