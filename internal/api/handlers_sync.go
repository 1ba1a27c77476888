package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stridehq/stride/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunFullSync triggers a complete batch run on demand and returns its
// summary. The nightly scheduler drives the same code path.
func (handler *Handler) RunFullSync(c *fiber.Ctx) error {
	summary := handler.syncService.SyncAllUsers(c.Context())
	return c.JSON(summary)
}

// SyncUserYesterday re-runs yesterday's sync for one user, typically after
// their credentials were restored.
func (handler *Handler) SyncUserYesterday(c *fiber.Ctx) error {
	userID, err := parseUserIDParam(c, "userId")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}

	record, err := handler.syncService.SyncUser(c.Context(), userID)
	if err != nil {
		return handler.syncError(c, err)
	}
	return c.JSON(stepRecordView(record))
}

// syncError maps the sync taxonomy onto user-facing statuses: an expired
// session asks for re-login, a transient provider fault asks to retry.
func (handler *Handler) syncError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apiError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, services.ErrNotConnected):
		return apiError(c, fiber.StatusConflict, "fitness provider not connected")
	case errors.Is(err, services.ErrSessionExpired):
		return apiError(c, fiber.StatusUnauthorized, "session expired, please log in again")
	case errors.Is(err, services.ErrProviderUnavailable):
		return apiError(c, fiber.StatusBadGateway, "fitness provider unavailable, try again later")
	default:
		handler.logger.Error("sync failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "sync failed")
	}
}
