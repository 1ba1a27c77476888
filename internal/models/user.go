package models

import "time"

type User struct {
	ID                 uint    `gorm:"primaryKey"`
	Name               string  `gorm:"not null"`
	Email              string  `gorm:"uniqueIndex;not null"`
	GoogleID           *string `gorm:"uniqueIndex"`
	GoogleAccessToken  string
	GoogleRefreshToken string
	TotalSteps         int64 `gorm:"not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasGoogleFit reports whether the user holds the long-lived credential
// needed to sync without re-authorization.
func (user User) HasGoogleFit() bool {
	return user.GoogleRefreshToken != ""
}
