package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mediplan/internal/models"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserKey, user)
	return c.Next()
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	raw, _ := requestToken(c)
	if raw == "" {
		return nil, errMissingAuthToken
	}

	claims, err := handler.parseToken(raw)
	if err != nil {
		return nil, err
	}

	user, err := handler.auth.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
