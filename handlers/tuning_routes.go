// handlers/tuning_routes.go
package handlers

import (
	"card-battle-system/middleware"
	"card-battle-system/models"
	"card-battle-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTuningRoutes(app *fiber.App, tuningService *services.TuningService) {
	garage := app.Group("/garage", middleware.UserContextMiddleware())

	garage.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		cars, err := tuningService.GetGarage(userID)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"cars": cars})
	})

	garage.Post("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			CardID string `json:"card_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.CardID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "card_id is required"})
		}

		car, err := tuningService.AddCarToGarage(userID, req.CardID)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(car)
	})

	garage.Post("/:id/upgrade", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Mod models.ModKind `json:"mod"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		newStage, err := tuningService.UpgradeMod(userID, c.Params("id"), req.Mod)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{
			"mod":       req.Mod,
			"new_stage": newStage,
		})
	})

	garage.Delete("/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		refunded, err := tuningService.RemoveCar(userID, c.Params("id"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"refunded_xp": refunded})
	})

	duels := app.Group("/tuning/challenges", middleware.UserContextMiddleware())

	duels.Get("/", func(c *fiber.Ctx) error {
		challenges, err := tuningService.ListOpenChallenges(c.QueryInt("limit", 50))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"challenges": challenges})
	})

	duels.Post("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			TunedCarID string              `json:"tuned_car_id"`
			Category   models.RaceCategory `json:"category"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		challenge, err := tuningService.PostChallenge(userID, req.TunedCarID, req.Category)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(challenge)
	})

	duels.Post("/:id/accept", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			TunedCarID string `json:"tuned_car_id"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		challenge, err := tuningService.AcceptChallenge(c.Params("id"), userID, req.TunedCarID)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{
			"challenger_score": challenge.ChallengerScore,
			"opponent_score":   challenge.OpponentScore,
			"winner_id":        challenge.WinnerID,
			"category":         challenge.Category,
		})
	})

	duels.Post("/:id/cancel", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if err := tuningService.CancelChallenge(c.Params("id"), userID); err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"message": "challenge cancelled"})
	})
}
