package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stridehq/stride/internal/models"
	"go.uber.org/zap"
)

// ErrNotConnected means the user has never completed the provider
// authorization and cannot be synced at all.
var ErrNotConnected = errors.New("user has not connected the fitness provider")

type syncUserSource interface {
	FindByID(userID uint) (models.User, error)
	ListWithRefreshToken() ([]models.User, error)
}

type providerFetcher interface {
	FetchTodaySteps(ctx context.Context, user models.User) (int64, error)
	FetchYesterdaySteps(ctx context.Context, user models.User) (int64, error)
}

type dailyRecorder interface {
	RecordForDate(userID uint, date time.Time, steps int64) (models.StepRecord, error)
	RecordToday(userID uint, steps int64) (models.StepRecord, error)
}

// Summary is the batch job's sole externally observed result besides the
// records themselves.
type Summary struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type SyncService struct {
	users    syncUserSource
	fit      providerFetcher
	steps    dailyRecorder
	location *time.Location
	logger   *zap.Logger
}

func NewSyncService(users syncUserSource, fit providerFetcher, steps dailyRecorder, location *time.Location, logger *zap.Logger) *SyncService {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		users:    users,
		fit:      fit,
		steps:    steps,
		location: location,
		logger:   logger,
	}
}

// SyncAllUsers runs the nightly reconciliation: for every user holding a
// refresh token, fetch yesterday's count and upsert yesterday's record. One
// user's failure never aborts the run for the rest.
func (service *SyncService) SyncAllUsers(ctx context.Context) Summary {
	runID := uuid.NewString()
	logger := service.logger.With(zap.String("run_id", runID))

	users, err := service.users.ListWithRefreshToken()
	if err != nil {
		logger.Error("daily sync aborted: listing eligible users failed", zap.Error(err))
		return Summary{}
	}

	logger.Info("daily step sync started", zap.Int("eligible_users", len(users)))

	summary := Summary{}
	yesterdayStart, _ := YesterdayWindow(time.Now(), service.location)

	for _, user := range users {
		if err := service.syncYesterday(ctx, user, yesterdayStart); err != nil {
			summary.Failed++
			logger.Error("user sync failed",
				zap.Uint("user_id", user.ID),
				zap.String("error_kind", errorKind(err)),
				zap.Error(err),
			)
			continue
		}
		summary.Succeeded++
	}

	logger.Info("daily step sync finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)
	return summary
}

// SyncUser is the on-demand single-user entry point for yesterday's window.
// Unlike the batch run, errors propagate raw so the caller can map them to a
// user-facing status.
func (service *SyncService) SyncUser(ctx context.Context, userID uint) (models.StepRecord, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return models.StepRecord{}, err
	}
	if !user.HasGoogleFit() {
		return models.StepRecord{}, ErrNotConnected
	}

	steps, err := service.fit.FetchYesterdaySteps(ctx, user)
	if err != nil {
		return models.StepRecord{}, err
	}

	yesterdayStart, _ := YesterdayWindow(time.Now(), service.location)
	return service.steps.RecordForDate(user.ID, yesterdayStart, steps)
}

// SyncUserToday fetches the running count for the current day, for clients
// that want their dashboard refreshed on demand.
func (service *SyncService) SyncUserToday(ctx context.Context, userID uint) (models.StepRecord, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return models.StepRecord{}, err
	}
	if user.GoogleAccessToken == "" {
		return models.StepRecord{}, ErrNotConnected
	}

	steps, err := service.fit.FetchTodaySteps(ctx, user)
	if err != nil {
		return models.StepRecord{}, err
	}
	return service.steps.RecordToday(user.ID, steps)
}

func (service *SyncService) syncYesterday(ctx context.Context, user models.User, yesterdayStart time.Time) error {
	steps, err := service.fit.FetchYesterdaySteps(ctx, user)
	if err != nil {
		return fmt.Errorf("fetch yesterday steps: %w", err)
	}
	if _, err := service.steps.RecordForDate(user.ID, yesterdayStart, steps); err != nil {
		return fmt.Errorf("record yesterday steps: %w", err)
	}
	return nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrSessionExpired):
		return "session_expired"
	case errors.Is(err, ErrProviderUnavailable):
		return "transient"
	default:
		return "internal"
	}
}
