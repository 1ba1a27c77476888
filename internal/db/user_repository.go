package db

import (
	"github.com/stridehq/stride/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByGoogleID(googleID string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) Save(user *models.User) error {
	return repo.database.Save(user).Error
}

func (repo *UserRepository) ListOrderedByName() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) ListByTotalStepsDesc() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.Order("total_steps DESC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListWithRefreshToken returns the users eligible for the nightly sync.
// Users who never completed the provider authorization are simply absent.
func (repo *UserRepository) ListWithRefreshToken() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.Where("google_refresh_token <> ''").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateAccessToken persists a freshly refreshed access token without
// touching the stored refresh token.
func (repo *UserRepository) UpdateAccessToken(userID uint, accessToken string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).
		Update("google_access_token", accessToken).Error
}

// UpdateRefreshToken stores a rotated refresh token. Callers must not pass
// an empty value; an absent token in a refresh response means the stored one
// stays.
func (repo *UserRepository) UpdateRefreshToken(userID uint, refreshToken string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).
		Update("google_refresh_token", refreshToken).Error
}

func (repo *UserRepository) AddToTotalSteps(userID uint, delta int64) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).
		Update("total_steps", gorm.Expr("total_steps + ?", delta)).Error
}

// RecalculateTotalSteps re-derives the running total as the sum of the
// user's daily records. This is the drift-repair path; normal writes go
// through the incremental delta in StepRecordRepository.
func (repo *UserRepository) RecalculateTotalSteps(userID uint) (int64, error) {
	var total int64
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.StepRecord{}).
			Where("user_id = ?", userID).
			Select("COALESCE(SUM(steps), 0)").
			Scan(&total).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("total_steps", total).Error
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
