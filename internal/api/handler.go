package api

import (
	"time"

	"github.com/stridehq/stride/internal/db"
	"github.com/stridehq/stride/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const authTokenTTL = 7 * 24 * time.Hour

type Handler struct {
	repositories *db.Repositories
	authService  *services.AuthService
	stepService  *services.StepService
	syncService  *services.SyncService
	leaderboard  *services.LeaderboardService
	secretKey    []byte
	location     *time.Location
	logger       *zap.Logger
}

// Dependencies carries the collaborators the thin HTTP layer exposes.
type Dependencies struct {
	Database    *gorm.DB
	StepService *services.StepService
	SyncService *services.SyncService
	SecretKey   string
	Location    *time.Location
	Logger      *zap.Logger
}

func NewHandler(deps Dependencies) *Handler {
	repositories := db.NewRepositories(deps.Database)
	location := deps.Location
	if location == nil {
		location = time.Local
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		repositories: repositories,
		authService:  services.NewAuthService(repositories.Users),
		stepService:  deps.StepService,
		syncService:  deps.SyncService,
		leaderboard:  services.NewLeaderboardService(repositories.Users),
		secretKey:    []byte(deps.SecretKey),
		location:     location,
		logger:       logger,
	}
}
