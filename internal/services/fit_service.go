package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stridehq/stride/internal/googlefit"
	"github.com/stridehq/stride/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrSessionExpired is the terminal credential failure: the stored
	// tokens can no longer reach the provider and the user must log in
	// again.
	ErrSessionExpired = errors.New("provider session expired, re-authorization required")

	// ErrProviderUnavailable covers network and provider-side faults that
	// are not credential problems.
	ErrProviderUnavailable = errors.New("fitness provider unavailable")
)

type stepFetcher interface {
	FetchSteps(ctx context.Context, accessToken string, start time.Time, end time.Time) (int64, error)
}

type tokenRefresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (googlefit.TokenResponse, error)
}

type fitTokenWriter interface {
	UpdateAccessToken(userID uint, accessToken string) error
	UpdateRefreshToken(userID uint, refreshToken string) error
}

type FitService struct {
	fetcher   stepFetcher
	refresher tokenRefresher
	users     fitTokenWriter
	location  *time.Location
	logger    *zap.Logger
}

func NewFitService(fetcher stepFetcher, refresher tokenRefresher, users fitTokenWriter, location *time.Location, logger *zap.Logger) *FitService {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FitService{
		fetcher:   fetcher,
		refresher: refresher,
		users:     users,
		location:  location,
		logger:    logger,
	}
}

// FetchStepsWithRefresh fetches the user's step count for [start, end),
// recovering from a rejected access token by refreshing and retrying exactly
// once. A second rejection is terminal; anything that is not a credential
// problem surfaces as ErrProviderUnavailable.
func (service *FitService) FetchStepsWithRefresh(ctx context.Context, user models.User, start time.Time, end time.Time) (int64, error) {
	if user.GoogleAccessToken == "" {
		return 0, fmt.Errorf("%w: no access token stored for user %d", ErrSessionExpired, user.ID)
	}

	steps, err := service.fetcher.FetchSteps(ctx, user.GoogleAccessToken, start, end)
	if err == nil {
		return steps, nil
	}
	if !errors.Is(err, googlefit.ErrUnauthorized) {
		return 0, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if user.GoogleRefreshToken == "" {
		service.logger.Warn("access token expired and no refresh token stored",
			zap.Uint("user_id", user.ID),
		)
		return 0, fmt.Errorf("%w: no refresh token stored for user %d", ErrSessionExpired, user.ID)
	}

	token, err := service.refresher.RefreshAccessToken(ctx, user.GoogleRefreshToken)
	if err != nil {
		service.logger.Warn("token refresh failed",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return 0, fmt.Errorf("%w: refresh denied: %v", ErrSessionExpired, err)
	}

	if err := service.users.UpdateAccessToken(user.ID, token.AccessToken); err != nil {
		return 0, fmt.Errorf("persist refreshed access token: %w", err)
	}
	// A refresh grant usually omits the refresh token. Only persist a new
	// one when the provider actually returned it, otherwise the stored
	// credential stays untouched.
	if token.RefreshToken != "" {
		if err := service.users.UpdateRefreshToken(user.ID, token.RefreshToken); err != nil {
			return 0, fmt.Errorf("persist rotated refresh token: %w", err)
		}
	}

	service.logger.Info("access token refreshed, retrying fetch",
		zap.Uint("user_id", user.ID),
	)

	steps, err = service.fetcher.FetchSteps(ctx, token.AccessToken, start, end)
	if err == nil {
		return steps, nil
	}
	if errors.Is(err, googlefit.ErrUnauthorized) {
		// Freshly refreshed token was rejected too; retrying further
		// would loop.
		return 0, fmt.Errorf("%w: provider rejected refreshed token for user %d", ErrSessionExpired, user.ID)
	}
	return 0, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}

// FetchTodaySteps fetches the step count for the current local day.
func (service *FitService) FetchTodaySteps(ctx context.Context, user models.User) (int64, error) {
	start, end := TodayWindow(time.Now(), service.location)
	return service.FetchStepsWithRefresh(ctx, user, start, end)
}

// FetchYesterdaySteps fetches the step count for the previous local day.
func (service *FitService) FetchYesterdaySteps(ctx context.Context, user models.User) (int64, error) {
	start, end := YesterdayWindow(time.Now(), service.location)
	return service.FetchStepsWithRefresh(ctx, user, start, end)
}
