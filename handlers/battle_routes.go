// handlers/battle_routes.go
package handlers

import (
	"time"

	"card-battle-system/middleware"
	"card-battle-system/models"
	"card-battle-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupBattleRoutes(app *fiber.App, battleService *services.BattleService, progressionService *services.ProgressionService, catalogService *services.CatalogService) {
	secured := app.Group("/battles", middleware.UserContextMiddleware())

	// Deal a fresh hand. Nothing is persisted until the challenge is
	// created, so re-dealing is free.
	secured.Get("/deal", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		cards, err := battleService.DealCards(userID)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"cards": cards})
	})

	secured.Post("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			OpponentID   string                `json:"opponent_id"`
			DealtCardIDs []string              `json:"dealt_card_ids"`
			Assignment   models.SlotAssignment `json:"assignment"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.OpponentID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "opponent_id is required"})
		}

		battle, err := battleService.CreateChallenge(userID, req.OpponentID, req.DealtCardIDs, req.Assignment)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(battle)
	})

	secured.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		battles, err := battleService.ListBattles(userID, c.QueryInt("limit", 50))
		if err != nil {
			return errorResponse(c, err)
		}

		now := time.Now()
		res := make([]fiber.Map, len(battles))
		for i, b := range battles {
			res[i] = fiber.Map{
				"battle": b,
				"status": b.EffectiveStatus(now),
			}
		}
		return c.JSON(fiber.Map{"battles": res})
	})

	secured.Get("/stats", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		stats, err := progressionService.BattleStats(userID)
		if err != nil {
			return errorResponse(c, err)
		}
		badges, err := catalogService.OwnedAchievementCards(userID)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{
			"stats":  stats,
			"badges": badges,
		})
	})

	secured.Post("/:id/accept", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			DealtCardIDs []string              `json:"dealt_card_ids"`
			Assignment   models.SlotAssignment `json:"assignment"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		battle, err := battleService.AcceptChallenge(c.Params("id"), userID, req.DealtCardIDs, req.Assignment)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{
			"round_results":    battle.RoundResults,
			"challenger_score": battle.ChallengerScore,
			"opponent_score":   battle.OpponentScore,
			"winner_id":        battle.WinnerID,
		})
	})

	secured.Post("/:id/decline", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if err := battleService.DeclineChallenge(c.Params("id"), userID); err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"message": "challenge declined"})
	})
}
