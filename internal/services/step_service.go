package services

import (
	"errors"
	"sync"
	"time"

	"github.com/stridehq/stride/internal/models"
)

var ErrNegativeSteps = errors.New("step count must not be negative")

const userLockStripes = 64

type stepRecordStore interface {
	UpsertForDayWithTotal(userID uint, dayStart time.Time, dayEnd time.Time, steps int64) (models.StepRecord, error)
	ListByUser(userID uint) ([]models.StepRecord, error)
}

type stepUserStore interface {
	FindByID(userID uint) (models.User, error)
	RecalculateTotalSteps(userID uint) (int64, error)
}

// StepService reconciles observed step counts into per-day records while
// keeping each user's running total consistent. Same-user writes are
// serialized through striped locks so two concurrent upserts cannot race on
// the stored count.
type StepService struct {
	records  stepRecordStore
	users    stepUserStore
	location *time.Location
	locks    [userLockStripes]sync.Mutex
}

func NewStepService(records stepRecordStore, users stepUserStore, location *time.Location) *StepService {
	if location == nil {
		location = time.Local
	}
	return &StepService{
		records:  records,
		users:    users,
		location: location,
	}
}

// RecordForDate upserts the step count for the calendar day holding date.
// The date is normalized to local midnight, so two writes at different times
// of the same day land on the same record.
func (service *StepService) RecordForDate(userID uint, date time.Time, steps int64) (models.StepRecord, error) {
	if steps < 0 {
		return models.StepRecord{}, ErrNegativeSteps
	}
	if _, err := service.users.FindByID(userID); err != nil {
		return models.StepRecord{}, err
	}

	lock := &service.locks[userID%userLockStripes]
	lock.Lock()
	defer lock.Unlock()

	dayStart, dayEnd := DayWindow(date, service.location)
	return service.records.UpsertForDayWithTotal(userID, dayStart, dayEnd, steps)
}

// RecordToday is the manual-entry path: a client-submitted count always
// targets the current local day.
func (service *StepService) RecordToday(userID uint, steps int64) (models.StepRecord, error) {
	return service.RecordForDate(userID, time.Now(), steps)
}

func (service *StepService) RecordsForUser(userID uint) ([]models.StepRecord, error) {
	if _, err := service.users.FindByID(userID); err != nil {
		return nil, err
	}
	return service.records.ListByUser(userID)
}

// RepairTotal re-derives the user's running total from their daily records.
// This is the out-of-band correction for suspected drift; normal writes rely
// on the incremental delta inside the upsert.
func (service *StepService) RepairTotal(userID uint) (int64, error) {
	if _, err := service.users.FindByID(userID); err != nil {
		return 0, err
	}

	lock := &service.locks[userID%userLockStripes]
	lock.Lock()
	defer lock.Unlock()

	return service.users.RecalculateTotalSteps(userID)
}
