package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/google/callback", handler.GoogleCallback)

	steps := api.Group("/steps", handler.AuthRequired)
	steps.Post("", handler.SubmitSteps)
	steps.Get("/:userId", handler.ListSteps)
	steps.Put("/sync/:userId", handler.SyncStepsToday)

	sync := api.Group("/sync", handler.AuthRequired)
	sync.Post("/run", handler.RunFullSync)
	sync.Post("/users/:userId", handler.SyncUserYesterday)

	users := api.Group("/users", handler.AuthRequired)
	users.Get("", handler.ListUsers)
	users.Post("/:userId/recalculate", handler.RecalculateTotal)

	api.Get("/leaderboard", handler.Leaderboard)
}
