package api

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stridehq/stride/internal/db"
	"github.com/stridehq/stride/internal/models"
	"github.com/stridehq/stride/internal/services"
	"gorm.io/gorm"
)

const testSecretKey = "test-secret-key"

// stubFitFetcher stands in for the provider-facing fit service so handler
// tests never leave the process.
type stubFitFetcher struct {
	stepsByUser map[uint]int64
	errByUser   map[uint]error
}

func newStubFitFetcher() *stubFitFetcher {
	return &stubFitFetcher{
		stepsByUser: make(map[uint]int64),
		errByUser:   make(map[uint]error),
	}
}

func (stub *stubFitFetcher) FetchTodaySteps(_ context.Context, user models.User) (int64, error) {
	return stub.fetch(user)
}

func (stub *stubFitFetcher) FetchYesterdaySteps(_ context.Context, user models.User) (int64, error) {
	return stub.fetch(user)
}

func (stub *stubFitFetcher) fetch(user models.User) (int64, error) {
	if err, failed := stub.errByUser[user.ID]; failed {
		return 0, err
	}
	return stub.stepsByUser[user.ID], nil
}

func newTestApp(t *testing.T) (*fiber.App, *Handler, *gorm.DB, *stubFitFetcher) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "stride-api-test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repositories := db.NewRepositories(database)
	fetcher := newStubFitFetcher()
	stepService := services.NewStepService(repositories.StepRecords, repositories.Users, time.UTC)
	syncService := services.NewSyncService(repositories.Users, fetcher, stepService, time.UTC, nil)

	handler := NewHandler(Dependencies{
		Database:    database,
		StepService: stepService,
		SyncService: syncService,
		SecretKey:   testSecretKey,
		Location:    time.UTC,
	})

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, handler, database, fetcher
}

func createAPITestUser(t *testing.T, database *gorm.DB, email string, connected bool) models.User {
	t.Helper()
	user := models.User{
		Name:  "Walker",
		Email: email,
	}
	if connected {
		user.GoogleAccessToken = "access"
		user.GoogleRefreshToken = "refresh"
	}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func itoa(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}

func bearerToken(t *testing.T, handler *Handler, user models.User) string {
	t.Helper()
	token, err := handler.issueAuthToken(user)
	if err != nil {
		t.Fatalf("issue auth token: %v", err)
	}
	return "Bearer " + token
}
