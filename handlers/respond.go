package handlers

import (
	"errors"

	"card-battle-system/models"

	"github.com/gofiber/fiber/v2"
)

// errorResponse maps engine sentinel errors onto HTTP statuses:
// validation and economic errors are 400s the client can fix,
// lifecycle errors are 409s telling the client to re-fetch, unknown
// errors are 500s.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrAlreadyResolved),
		errors.Is(err, models.ErrCannotAcceptOwnChallenge),
		errors.Is(err, models.ErrCarLocked),
		errors.Is(err, models.ErrChallengeExpired):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrWeeklyLimitExceeded):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, models.ErrInvalidAssignment),
		errors.Is(err, models.ErrInsufficientCards),
		errors.Is(err, models.ErrSelfChallenge),
		errors.Is(err, models.ErrDuplicateOpenChallenge),
		errors.Is(err, models.ErrInsufficientXP),
		errors.Is(err, models.ErrMaxStageReached),
		errors.Is(err, models.ErrNotTunable),
		errors.Is(err, models.ErrUnknownMod),
		errors.Is(err, models.ErrInvalidCategory):
		status = fiber.StatusBadRequest
	}

	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{
			"error": "internal error",
			"cause": err.Error(),
		})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
