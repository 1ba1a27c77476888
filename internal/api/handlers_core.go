package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := handler.repositories.Users.ListOrderedByName()
	if err != nil {
		handler.logger.Error("user listing failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to load users")
	}
	return c.JSON(userViews(users))
}

func (handler *Handler) Leaderboard(c *fiber.Ctx) error {
	users, err := handler.leaderboard.Ranking()
	if err != nil {
		handler.logger.Error("leaderboard query failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to load leaderboard")
	}
	return c.JSON(userViews(users))
}
