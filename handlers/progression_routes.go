// handlers/progression_routes.go
package handlers

import (
	"card-battle-system/middleware"
	"card-battle-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(app *fiber.App, progressionService *services.ProgressionService) {
	secured := app.Group("/user", middleware.UserContextMiddleware())

	secured.Get("/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prof, err := progressionService.EnsureProfile(userID)
		if err != nil {
			return errorResponse(c, err)
		}
		available, err := progressionService.AvailableXP(progressionService.DB, userID)
		if err != nil {
			return errorResponse(c, err)
		}
		stats, err := progressionService.BattleStats(userID)
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(fiber.Map{
			"total_xp":     prof.TotalXP,
			"available_xp": available,
			"invested_xp":  prof.TotalXP - available,
			"level":        services.LevelForXP(prof.TotalXP),
			"stats":        stats,
		})
	})
}
