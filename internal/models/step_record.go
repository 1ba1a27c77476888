package models

import "time"

// StepRecord holds one user's step count for one calendar day. Date is
// always local midnight; the composite unique index is what makes the
// reconciler's upsert safe to re-run.
type StepRecord struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:uidx_user_day"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_user_day"`
	Steps     int64     `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
