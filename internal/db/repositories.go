package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	StepRecords *StepRecordRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		StepRecords: NewStepRecordRepository(database),
	}
}
