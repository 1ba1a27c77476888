package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/stridehq/stride/internal/services"
	"go.uber.org/zap"
)

type googleCallbackPayload struct {
	GoogleID     string `json:"google_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GoogleCallback receives the result of the externally handled OAuth
// handshake, provisions or updates the user, and returns an API session
// token.
func (handler *Handler) GoogleCallback(c *fiber.Ctx) error {
	payload := googleCallbackPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	payload.GoogleID = strings.TrimSpace(payload.GoogleID)
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.GoogleID == "" || payload.Email == "" || payload.AccessToken == "" {
		return apiError(c, fiber.StatusBadRequest, "google id, email and access token are required")
	}
	if strings.TrimSpace(payload.Name) == "" {
		payload.Name = payload.Email
	}

	user, err := handler.authService.UpsertGoogleUser(services.GoogleProfile{
		ID:    payload.GoogleID,
		Name:  payload.Name,
		Email: payload.Email,
	}, payload.AccessToken, payload.RefreshToken)
	if err != nil {
		handler.logger.Error("google login upsert failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "login failed")
	}

	token, err := handler.issueAuthToken(user)
	if err != nil {
		handler.logger.Error("auth token signing failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "login failed")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  userView(user),
	})
}
