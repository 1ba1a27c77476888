package db

import (
	"errors"
	"time"

	"github.com/stridehq/stride/internal/models"
	"gorm.io/gorm"
)

type StepRecordRepository struct {
	database *gorm.DB
}

func NewStepRecordRepository(database *gorm.DB) *StepRecordRepository {
	return &StepRecordRepository{database: database}
}

func (repo *StepRecordRepository) ListByUser(userID uint) ([]models.StepRecord, error) {
	records := make([]models.StepRecord, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *StepRecordRepository) FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.StepRecord, bool, error) {
	record := models.StepRecord{}
	result := repo.database.
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Order("date DESC, id DESC").
		Limit(1).
		Find(&record)
	if result.Error != nil {
		return models.StepRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.StepRecord{}, false, nil
	}
	return record, true, nil
}

func (repo *StepRecordRepository) Create(record *models.StepRecord) error {
	return repo.database.Create(record).Error
}

func (repo *StepRecordRepository) Save(record *models.StepRecord) error {
	return repo.database.Save(record).Error
}

// UpsertForDayWithTotal writes the step count for one user-day and keeps the
// user's running total consistent in the same transaction. A new day adds
// the full count; an existing day applies only the difference against the
// stored count, so re-running the same sync is a correction, not a
// duplicate.
func (repo *StepRecordRepository) UpsertForDayWithTotal(userID uint, dayStart time.Time, dayEnd time.Time, steps int64) (models.StepRecord, error) {
	var saved models.StepRecord
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		var existing models.StepRecord
		result := tx.
			Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
			Order("date DESC, id DESC").
			First(&existing)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			saved = models.StepRecord{
				UserID: userID,
				Date:   dayStart,
				Steps:  steps,
			}
			if err := tx.Create(&saved).Error; err != nil {
				return err
			}
			return tx.Model(&models.User{}).Where("id = ?", userID).
				Update("total_steps", gorm.Expr("total_steps + ?", steps)).Error
		}
		if result.Error != nil {
			return result.Error
		}

		delta := steps - existing.Steps
		existing.Steps = steps
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		saved = existing
		if delta == 0 {
			return nil
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("total_steps", gorm.Expr("total_steps + ?", delta)).Error
	})
	if err != nil {
		return models.StepRecord{}, err
	}
	return saved, nil
}
