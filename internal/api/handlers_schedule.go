package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mediplan/internal/schedule"
)

const maxListLimit = 500

func (handler *Handler) ScheduleToday(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := handler.now().In(handler.location)
	medications, err := handler.medications.Today(user.ID, now)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"date":        schedule.FormatDate(schedule.Today(now)),
		"medications": handler.medicationResponses(handler.currentLanguage(c), medications),
	})
}

func (handler *Handler) ScheduleUpcoming(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	limit, ok := parseLimit(c.Query("limit"))
	if !ok {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	now := handler.now().In(handler.location)
	medications, err := handler.medications.Upcoming(user.ID, now, limit)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"date":        schedule.FormatDate(schedule.Today(now)),
		"medications": handler.medicationResponses(handler.currentLanguage(c), medications),
	})
}

func (handler *Handler) History(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	limit, ok := parseLimit(c.Query("limit"))
	if !ok {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	events, err := handler.medications.History(user.ID, limit)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(historyResponses(events))
}

// parseLimit accepts an empty value (no limit) or 1..maxListLimit.
func parseLimit(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 || value > maxListLimit {
		return 0, false
	}
	return value, true
}
