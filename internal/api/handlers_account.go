package api

import (
	"github.com/gofiber/fiber/v2"
)

type profileInput struct {
	Name string `json:"name" form:"name"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type deleteAccountInput struct {
	Password string `json:"password" form:"password"`
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(user)
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := profileInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	name, err := handler.settings.UpdateName(user.ID, input.Name)
	if err != nil {
		return handler.serviceError(c, err)
	}
	user.Name = name
	return c.JSON(user)
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	if err := handler.settings.ChangePassword(user.ID, user.PasswordHash, input.CurrentPassword, input.NewPassword, input.ConfirmPassword); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := deleteAccountInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	if err := handler.settings.DeleteAccount(user.ID, user.PasswordHash, input.Password); err != nil {
		return handler.serviceError(c, err)
	}
	handler.clearAuthCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}
