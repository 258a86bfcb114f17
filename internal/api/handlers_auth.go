package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mediplan/internal/services"
)

type registerInput struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Birthdate       string `json:"birthdate" form:"birthdate"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type credentialsInput struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

type forgotPasswordInput struct {
	RecoveryCode string `json:"recovery_code" form:"recovery_code"`
}

type resetPasswordInput struct {
	Token           string `json:"token" form:"token"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := registerInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	user, recoveryCode, err := handler.auth.Register(services.RegistrationInput{
		Name:            input.Name,
		Email:           input.Email,
		Birthdate:       input.Birthdate,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	}, handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}

	token, err := handler.setAuthCookie(c, &user, false)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":          user,
		"token":         token,
		"recovery_code": recoveryCode,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return handler.apiError(c, fiber.StatusTooManyRequests, "too_many_requests")
	}

	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	user, err := handler.auth.Authenticate(input.Email, input.Password)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, now)
		return handler.serviceError(c, err)
	}
	handler.loginLimiter.reset(limiterKey)

	token, err := handler.setAuthCookie(c, &user, input.RememberMe)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

// ForgotPassword trades a recovery code for a short-lived reset token.
func (handler *Handler) ForgotPassword(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	now := handler.now()
	if handler.recoveryLimiter.blocked(limiterKey, now) {
		return handler.apiError(c, fiber.StatusTooManyRequests, "too_many_requests")
	}

	input := forgotPasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	token, err := handler.auth.StartPasswordRecovery(input.RecoveryCode, now)
	if err != nil {
		handler.recoveryLimiter.addFailure(limiterKey, now)
		return handler.serviceError(c, err)
	}
	handler.recoveryLimiter.reset(limiterKey)
	return c.JSON(fiber.Map{"reset_token": token})
}

func (handler *Handler) ResetPassword(c *fiber.Ctx) error {
	input := resetPasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	recoveryCode, err := handler.auth.CompletePasswordRecovery(input.Token, input.Password, input.ConfirmPassword, handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"recovery_code": recoveryCode})
}
