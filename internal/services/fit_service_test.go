package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stridehq/stride/internal/googlefit"
	"github.com/stridehq/stride/internal/models"
)

type stubStepFetcher struct {
	results []fetchResult
	calls   int
	tokens  []string
}

type fetchResult struct {
	steps int64
	err   error
}

func (stub *stubStepFetcher) FetchSteps(_ context.Context, accessToken string, _ time.Time, _ time.Time) (int64, error) {
	stub.tokens = append(stub.tokens, accessToken)
	if stub.calls >= len(stub.results) {
		return 0, errors.New("unexpected fetch call")
	}
	result := stub.results[stub.calls]
	stub.calls++
	return result.steps, result.err
}

type stubTokenRefresher struct {
	response googlefit.TokenResponse
	err      error
	calls    int
}

func (stub *stubTokenRefresher) RefreshAccessToken(context.Context, string) (googlefit.TokenResponse, error) {
	stub.calls++
	if stub.err != nil {
		return googlefit.TokenResponse{}, stub.err
	}
	return stub.response, nil
}

type stubTokenWriter struct {
	accessTokens  map[uint]string
	refreshTokens map[uint]string
}

func newStubTokenWriter() *stubTokenWriter {
	return &stubTokenWriter{
		accessTokens:  make(map[uint]string),
		refreshTokens: make(map[uint]string),
	}
}

func (stub *stubTokenWriter) UpdateAccessToken(userID uint, accessToken string) error {
	stub.accessTokens[userID] = accessToken
	return nil
}

func (stub *stubTokenWriter) UpdateRefreshToken(userID uint, refreshToken string) error {
	stub.refreshTokens[userID] = refreshToken
	return nil
}

func fitTestUser() models.User {
	return models.User{
		ID:                 7,
		Name:               "Walker",
		Email:              "walker@example.com",
		GoogleAccessToken:  "stale-access",
		GoogleRefreshToken: "long-lived-refresh",
	}
}

func TestFetchStepsWithRefreshReturnsFirstAttempt(t *testing.T) {
	fetcher := &stubStepFetcher{results: []fetchResult{{steps: 4321}}}
	refresher := &stubTokenRefresher{}
	writer := newStubTokenWriter()
	service := NewFitService(fetcher, refresher, writer, time.UTC, nil)

	steps, err := service.FetchStepsWithRefresh(context.Background(), fitTestUser(), time.Now(), time.Now())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if steps != 4321 {
		t.Fatalf("expected 4321 steps, got %d", steps)
	}
	if refresher.calls != 0 {
		t.Fatalf("expected no refresh, got %d calls", refresher.calls)
	}
}

func TestFetchStepsWithRefreshRecoversFromStaleToken(t *testing.T) {
	fetcher := &stubStepFetcher{results: []fetchResult{
		{err: googlefit.ErrUnauthorized},
		{steps: 900},
	}}
	refresher := &stubTokenRefresher{response: googlefit.TokenResponse{AccessToken: "fresh-access"}}
	writer := newStubTokenWriter()
	service := NewFitService(fetcher, refresher, writer, time.UTC, nil)

	steps, err := service.FetchStepsWithRefresh(context.Background(), fitTestUser(), time.Now(), time.Now())
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if steps != 900 {
		t.Fatalf("expected 900 steps, got %d", steps)
	}
	if writer.accessTokens[7] != "fresh-access" {
		t.Fatalf("expected refreshed access token persisted, got %q", writer.accessTokens[7])
	}
	if _, rotated := writer.refreshTokens[7]; rotated {
		t.Fatalf("refresh token must stay untouched when the response omits one")
	}
	if fetcher.tokens[1] != "fresh-access" {
		t.Fatalf("retry must use the refreshed token, used %q", fetcher.tokens[1])
	}
}

func TestFetchStepsWithRefreshPersistsRotatedRefreshToken(t *testing.T) {
	fetcher := &stubStepFetcher{results: []fetchResult{
		{err: googlefit.ErrUnauthorized},
		{steps: 1},
	}}
	refresher := &stubTokenRefresher{response: googlefit.TokenResponse{
		AccessToken:  "fresh-access",
		RefreshToken: "rotated-refresh",
	}}
	writer := newStubTokenWriter()
	service := NewFitService(fetcher, refresher, writer, time.UTC, nil)

	if _, err := service.FetchStepsWithRefresh(context.Background(), fitTestUser(), time.Now(), time.Now()); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if writer.refreshTokens[7] != "rotated-refresh" {
		t.Fatalf("expected rotated refresh token persisted, got %q", writer.refreshTokens[7])
	}
}

func TestFetchStepsWithRefreshStopsAfterSecondUnauthorized(t *testing.T) {
	fetcher := &stubStepFetcher{results: []fetchResult{
		{err: googlefit.ErrUnauthorized},
		{err: googlefit.ErrUnauthorized},
	}}
	refresher := &stubTokenRefresher{response: googlefit.TokenResponse{AccessToken: "fresh-access"}}
	service := NewFitService(fetcher, refresher, newStubTokenWriter(), time.UTC, nil)

	_, err := service.FetchStepsWithRefresh(context.Background(), fitTestUser(), time.Now(), time.Now())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected exactly 2 fetch attempts, got %d", fetcher.calls)
	}
	if refresher.calls != 1 {
		t.Fatalf("expected exactly 1 refresh attempt, got %d", refresher.calls)
	}
}

func TestFetchStepsWithRefreshFailsWithoutAccessToken(t *testing.T) {
	service := NewFitService(&stubStepFetcher{}, &stubTokenRefresher{}, newStubTokenWriter(), time.UTC, nil)

	user := fitTestUser()
	user.GoogleAccessToken = ""
	_, err := service.FetchStepsWithRefresh(context.Background(), user, time.Now(), time.Now())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestFetchStepsWithRefreshFailsWithoutRefreshToken(t *testing.T) {
	fetcher := &stubStepFetcher{results: []fetchResult{{err: googlefit.ErrUnauthorized}}}
	refresher := &stubTokenRefresher{}
	service := NewFitService(fetcher, refresher, newStubTokenWriter(), time.UTC, nil)

	user := fitTestUser()
	user.GoogleRefreshToken = ""
	_, err := service.FetchStepsWithRefresh(context.Background(), user, time.Now(), time.Now())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if refresher.calls != 0 {
		t.Fatalf("expected no refresh attempt without a refresh token")
	}
}

func TestFetchStepsWithRefreshMapsRefreshFailureToSessionExpired(t *testing.T) {
	fetcher := &stubStepFetcher{results: []fetchResult{{err: googlefit.ErrUnauthorized}}}
	refresher := &stubTokenRefresher{err: googlefit.ErrRefreshDenied}
	service := NewFitService(fetcher, refresher, newStubTokenWriter(), time.UTC, nil)

	_, err := service.FetchStepsWithRefresh(context.Background(), fitTestUser(), time.Now(), time.Now())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected no retry after failed refresh, got %d fetches", fetcher.calls)
	}
}

func TestFetchStepsWithRefreshMapsOtherFailuresToTransient(t *testing.T) {
	fetcher := &stubStepFetcher{results: []fetchResult{
		{err: &googlefit.ProviderError{Status: 503}},
	}}
	service := NewFitService(fetcher, &stubTokenRefresher{}, newStubTokenWriter(), time.UTC, nil)

	_, err := service.FetchStepsWithRefresh(context.Background(), fitTestUser(), time.Now(), time.Now())
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
