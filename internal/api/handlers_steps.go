package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stridehq/stride/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type submitStepsPayload struct {
	UserID uint  `json:"user_id"`
	Steps  int64 `json:"steps"`
}

// SubmitSteps is the manual-entry path: a client-reported count that always
// targets the current local day.
func (handler *Handler) SubmitSteps(c *fiber.Ctx) error {
	payload := submitStepsPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.UserID == 0 {
		if user, ok := currentUser(c); ok {
			payload.UserID = user.ID
		}
	}
	if payload.UserID == 0 {
		return apiError(c, fiber.StatusBadRequest, "user id is required")
	}

	record, err := handler.stepService.RecordToday(payload.UserID, payload.Steps)
	if err != nil {
		return handler.stepWriteError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stepRecordView(record))
}

func (handler *Handler) ListSteps(c *fiber.Ctx) error {
	userID, err := parseUserIDParam(c, "userId")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}

	records, err := handler.stepService.RecordsForUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusNotFound, "user not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load records")
	}
	return c.JSON(stepRecordViews(records))
}

// SyncStepsToday pulls the current day's count from the provider on demand.
func (handler *Handler) SyncStepsToday(c *fiber.Ctx) error {
	userID, err := parseUserIDParam(c, "userId")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}

	record, err := handler.syncService.SyncUserToday(c.Context(), userID)
	if err != nil {
		return handler.syncError(c, err)
	}
	return c.JSON(stepRecordView(record))
}

func (handler *Handler) RecalculateTotal(c *fiber.Ctx) error {
	userID, err := parseUserIDParam(c, "userId")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}

	total, err := handler.stepService.RepairTotal(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusNotFound, "user not found")
		}
		handler.logger.Error("total recalculation failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return apiError(c, fiber.StatusInternalServerError, "recalculation failed")
	}
	return c.JSON(fiber.Map{"user_id": userID, "total_steps": total})
}

func (handler *Handler) stepWriteError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNegativeSteps):
		return apiError(c, fiber.StatusBadRequest, "steps must not be negative")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apiError(c, fiber.StatusNotFound, "user not found")
	default:
		handler.logger.Error("step record write failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to save steps")
	}
}
