package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/terraincognita07/mediplan/internal/models"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) Frequencies(c *fiber.Ctx) error {
	language := handler.currentLanguage(c)
	return c.JSON(lo.Map(models.DefaultFrequencies(), func(frequency models.Frequency, _ int) frequencyResponse {
		return frequencyResponse{
			Key:   frequency.Key,
			Label: handler.i18n.FrequencyLabel(language, frequency.Key),
		}
	}))
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return handler.apiError(c, fiber.StatusNotFound, "not_found")
}
