package googlefit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTokenURL     = "https://oauth2.googleapis.com/token"
	defaultAggregateURL = "https://www.googleapis.com/fitness/v1/users/me/dataset:aggregate"

	stepDataType = "com.google.step_count.delta"
)

var (
	// ErrUnauthorized means the provider rejected the access token. It is
	// the only failure the caller may recover from by refreshing.
	ErrUnauthorized = errors.New("googlefit: access token rejected")

	// ErrRefreshDenied means the token exchange itself failed: revoked
	// grant, bad client credentials, or a provider-side rejection.
	ErrRefreshDenied = errors.New("googlefit: refresh token exchange denied")
)

// ProviderError is any non-401 HTTP failure from the fitness API.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("googlefit: provider returned status %d", e.Status)
	}
	return fmt.Sprintf("googlefit: provider returned status %d: %s", e.Status, e.Message)
}

type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	AggregateURL string
	Timeout      time.Duration
}

type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	tokenURL     string
	aggregateURL string
	logger       *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.AggregateURL == "" {
		cfg.AggregateURL = defaultAggregateURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     cfg.TokenURL,
		aggregateURL: cfg.AggregateURL,
		logger:       logger,
	}
}

// TokenResponse carries a fresh access token. RefreshToken is usually empty
// on a refresh grant; callers must keep the stored one when it is.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type refreshRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
	GrantType    string `json:"grant_type"`
}

func (client *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (TokenResponse, error) {
	if refreshToken == "" {
		return TokenResponse{}, fmt.Errorf("%w: no refresh token", ErrRefreshDenied)
	}

	payload, err := json.Marshal(refreshRequest{
		ClientID:     client.clientID,
		ClientSecret: client.clientSecret,
		RefreshToken: refreshToken,
		GrantType:    "refresh_token",
	})
	if err != nil {
		return TokenResponse{}, fmt.Errorf("marshal refresh request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("build refresh request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("%w: %v", ErrRefreshDenied, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 2048))
		client.logger.Warn("token refresh rejected",
			zap.Int("status", response.StatusCode),
			zap.ByteString("body", body),
		)
		return TokenResponse{}, fmt.Errorf("%w: status %d", ErrRefreshDenied, response.StatusCode)
	}

	var token TokenResponse
	if err := json.NewDecoder(response.Body).Decode(&token); err != nil {
		return TokenResponse{}, fmt.Errorf("%w: decode response: %v", ErrRefreshDenied, err)
	}
	if token.AccessToken == "" {
		return TokenResponse{}, fmt.Errorf("%w: response has no access token", ErrRefreshDenied)
	}
	return token, nil
}

type aggregateRequest struct {
	AggregateBy     []aggregateBy `json:"aggregateBy"`
	BucketByTime    bucketByTime  `json:"bucketByTime"`
	StartTimeMillis int64         `json:"startTimeMillis"`
	EndTimeMillis   int64         `json:"endTimeMillis"`
}

type aggregateBy struct {
	DataTypeName string `json:"dataTypeName"`
}

type bucketByTime struct {
	DurationMillis int64 `json:"durationMillis"`
}

type aggregateResponse struct {
	Bucket []struct {
		Dataset []struct {
			Point []struct {
				Value []struct {
					IntVal int64 `json:"intVal"`
				} `json:"value"`
			} `json:"point"`
		} `json:"dataset"`
	} `json:"bucket"`
}

// FetchSteps sums the provider's aggregate step count over [start, end).
// Missing buckets, datasets, or points contribute zero; only the HTTP layer
// can fail the call.
func (client *Client) FetchSteps(ctx context.Context, accessToken string, start time.Time, end time.Time) (int64, error) {
	startMillis := start.UnixMilli()
	endMillis := end.UnixMilli()

	payload, err := json.Marshal(aggregateRequest{
		AggregateBy:     []aggregateBy{{DataTypeName: stepDataType}},
		BucketByTime:    bucketByTime{DurationMillis: endMillis - startMillis},
		StartTimeMillis: startMillis,
		EndTimeMillis:   endMillis,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal aggregate request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.aggregateURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build aggregate request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return 0, fmt.Errorf("fetch steps: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusUnauthorized {
		return 0, ErrUnauthorized
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 2048))
		return 0, &ProviderError{Status: response.StatusCode, Message: string(bytes.TrimSpace(body))}
	}

	var parsed aggregateResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode aggregate response: %w", err)
	}

	var total int64
	for _, bucket := range parsed.Bucket {
		for _, dataset := range bucket.Dataset {
			for _, point := range dataset.Point {
				for _, value := range point.Value {
					total += value.IntVal
				}
			}
		}
	}
	return total, nil
}
