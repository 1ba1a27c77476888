package services

import (
	"errors"

	"github.com/stridehq/stride/internal/models"
	"gorm.io/gorm"
)

type authUserRepository interface {
	FindByGoogleID(googleID string) (models.User, error)
	FindByEmail(email string) (models.User, error)
	Create(user *models.User) error
	Save(user *models.User) error
}

// GoogleProfile is the identity the external OAuth handshake hands over
// once the user has authorized the fitness scopes.
type GoogleProfile struct {
	ID    string
	Name  string
	Email string
}

type AuthService struct {
	users authUserRepository
}

func NewAuthService(users authUserRepository) *AuthService {
	return &AuthService{users: users}
}

// UpsertGoogleUser creates or updates a user from a completed provider
// login. The access token is always replaced; the refresh token is replaced
// only when the provider sent one, since a login without the consent screen
// omits it and overwriting would permanently break sync for that user.
func (service *AuthService) UpsertGoogleUser(profile GoogleProfile, accessToken string, refreshToken string) (models.User, error) {
	user, err := service.users.FindByGoogleID(profile.ID)
	if err == nil {
		user.GoogleAccessToken = accessToken
		if refreshToken != "" {
			user.GoogleRefreshToken = refreshToken
		}
		if err := service.users.Save(&user); err != nil {
			return models.User{}, err
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	// No account for this Google ID yet; an existing user with the same
	// email gets the accounts linked instead of a duplicate.
	user, err = service.users.FindByEmail(profile.Email)
	if err == nil {
		googleID := profile.ID
		user.GoogleID = &googleID
		user.GoogleAccessToken = accessToken
		if refreshToken != "" {
			user.GoogleRefreshToken = refreshToken
		}
		if err := service.users.Save(&user); err != nil {
			return models.User{}, err
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	googleID := profile.ID
	user = models.User{
		Name:               profile.Name,
		Email:              profile.Email,
		GoogleID:           &googleID,
		GoogleAccessToken:  accessToken,
		GoogleRefreshToken: refreshToken,
		TotalSteps:         0,
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
