package services

import "github.com/stridehq/stride/internal/models"

type leaderboardUserSource interface {
	ListByTotalStepsDesc() ([]models.User, error)
}

type LeaderboardService struct {
	users leaderboardUserSource
}

func NewLeaderboardService(users leaderboardUserSource) *LeaderboardService {
	return &LeaderboardService{users: users}
}

func (service *LeaderboardService) Ranking() ([]models.User, error) {
	return service.users.ListByTotalStepsDesc()
}
