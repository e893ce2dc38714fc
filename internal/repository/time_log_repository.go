package repository

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	"github.com/yukikurage/team-task-tracker/internal/database"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormTimeLogRepository is a GORM implementation of TimeLogRepository
type GormTimeLogRepository struct {
	db *gorm.DB
}

// NewTimeLogRepository creates a new TimeLogRepository
func NewTimeLogRepository(db *gorm.DB) TimeLogRepository {
	return &GormTimeLogRepository{db: db}
}

// CreateWithinCap inserts entry when check accepts the prior daily total.
// Concurrent submissions by the same user wait on the user row lock.
func (r *GormTimeLogRepository) CreateWithinCap(entry *models.TimeLog, check CapCheck) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, entry.UserID); err != nil {
			return err
		}
		prior, err := dailyTotal(tx, entry.UserID, entry.Date, nil)
		if err != nil {
			return err
		}
		if err := check(prior); err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// UpdateWithinCap edits an entry, re-validating the cap without the entry itself
func (r *GormTimeLogRepository) UpdateWithinCap(id uuid.UUID, mutate func(entry *models.TimeLog) error, check CapCheck) (*models.TimeLog, error) {
	var entry models.TimeLog
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(database.ForUpdate).First(&entry, "id = ?", id).Error; err != nil {
			return err
		}
		if err := lockUser(tx, entry.UserID); err != nil {
			return err
		}
		if err := mutate(&entry); err != nil {
			return err
		}
		prior, err := dailyTotal(tx, entry.UserID, entry.Date, &entry.ID)
		if err != nil {
			return err
		}
		if err := check(prior); err != nil {
			return err
		}
		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByID finds a time log by ID
func (r *GormTimeLogRepository) FindByID(id uuid.UUID) (*models.TimeLog, error) {
	var entry models.TimeLog
	if err := r.db.First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// List retrieves time logs with filtering and pagination, latest date first
func (r *GormTimeLogRepository) List(filter TimeLogFilter) ([]models.TimeLog, int64, error) {
	query := r.db.Model(&models.TimeLog{}).Where("user_id = ?", filter.UserID)

	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := []models.TimeLog{}
	if err := query.Order("date DESC").
		Order("created_at DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// DailyTotal sums the hours logged by userID on date
func (r *GormTimeLogRepository) DailyTotal(userID uuid.UUID, date datatypes.Date) (decimal.Decimal, error) {
	return dailyTotal(r.db, userID, date, nil)
}

// Delete removes a time log
func (r *GormTimeLogRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.TimeLog{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func lockUser(tx *gorm.DB, userID uuid.UUID) error {
	var user models.User
	return tx.Scopes(database.ForUpdate).Select("id").First(&user, "id = ?", userID).Error
}

func dailyTotal(db *gorm.DB, userID uuid.UUID, date datatypes.Date, exclude *uuid.UUID) (decimal.Decimal, error) {
	query := db.Model(&models.TimeLog{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("user_id = ? AND date = ?", userID, date)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}

	var total decimal.NullDecimal
	if err := query.Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(constants.HoursPrecision), nil
}
