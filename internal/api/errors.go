package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mediplan/internal/services"
)

type errorSpec struct {
	status int
	code   string
}

var serviceErrors = []struct {
	err  error
	spec errorSpec
}{
	{services.ErrAuthCredentialsInvalid, errorSpec{fiber.StatusUnauthorized, "invalid_credentials"}},
	{services.ErrAuthEmailTaken, errorSpec{fiber.StatusConflict, "email_taken"}},
	{services.ErrAuthNameRequired, errorSpec{fiber.StatusBadRequest, "name_required"}},
	{services.ErrAuthNameTooLong, errorSpec{fiber.StatusBadRequest, "name_too_long"}},
	{services.ErrAuthBirthdateInvalid, errorSpec{fiber.StatusBadRequest, "birthdate_invalid"}},
	{services.ErrAuthPasswordMismatch, errorSpec{fiber.StatusBadRequest, "password_mismatch"}},
	{services.ErrWeakPassword, errorSpec{fiber.StatusBadRequest, "weak_password"}},
	{services.ErrAuthRecoveryCodeInvalid, errorSpec{fiber.StatusBadRequest, "recovery_code_invalid"}},
	{services.ErrRecoveryCodeNotFound, errorSpec{fiber.StatusUnauthorized, "recovery_code_not_found"}},
	{services.ErrResetTokenMissing, errorSpec{fiber.StatusBadRequest, "reset_token_invalid"}},
	{services.ErrResetTokenInvalid, errorSpec{fiber.StatusUnauthorized, "reset_token_invalid"}},
	{services.ErrResetTokenExpired, errorSpec{fiber.StatusUnauthorized, "reset_token_expired"}},
	{services.ErrResetTokenUsed, errorSpec{fiber.StatusUnauthorized, "reset_token_used"}},
	{services.ErrAuthUserNotFound, errorSpec{fiber.StatusUnauthorized, "unauthorized"}},

	{services.ErrSettingsPasswordChangeInvalidInput, errorSpec{fiber.StatusBadRequest, "invalid_input"}},
	{services.ErrSettingsPasswordMismatch, errorSpec{fiber.StatusBadRequest, "password_mismatch"}},
	{services.ErrSettingsInvalidCurrentPassword, errorSpec{fiber.StatusUnauthorized, "current_password_invalid"}},
	{services.ErrSettingsNewPasswordMustDiffer, errorSpec{fiber.StatusBadRequest, "new_password_must_differ"}},
	{services.ErrSettingsWeakPassword, errorSpec{fiber.StatusBadRequest, "weak_password"}},
	{services.ErrSettingsPasswordMissing, errorSpec{fiber.StatusBadRequest, "password_required"}},
	{services.ErrSettingsPasswordInvalid, errorSpec{fiber.StatusUnauthorized, "password_invalid"}},

	{services.ErrMedicationNotFound, errorSpec{fiber.StatusNotFound, "medication_not_found"}},
	{services.ErrMedicationNotActive, errorSpec{fiber.StatusConflict, "medication_not_active"}},
	{services.ErrMedicationNameRequired, errorSpec{fiber.StatusBadRequest, "medication_name_required"}},
	{services.ErrMedicationNameTooLong, errorSpec{fiber.StatusBadRequest, "medication_name_too_long"}},
	{services.ErrMedicationDescriptionLong, errorSpec{fiber.StatusBadRequest, "medication_description_too_long"}},
	{services.ErrMedicationDosageRequired, errorSpec{fiber.StatusBadRequest, "medication_dosage_required"}},
	{services.ErrMedicationDosageTooLong, errorSpec{fiber.StatusBadRequest, "medication_dosage_too_long"}},
	{services.ErrMedicationFrequencyRequired, errorSpec{fiber.StatusBadRequest, "medication_frequency_required"}},
	{services.ErrMedicationFrequencyInvalid, errorSpec{fiber.StatusBadRequest, "medication_frequency_invalid"}},
	{services.ErrMedicationStartDateRequired, errorSpec{fiber.StatusBadRequest, "medication_start_date_required"}},
	{services.ErrMedicationStartDateInvalid, errorSpec{fiber.StatusBadRequest, "medication_start_date_invalid"}},
	{services.ErrMedicationEndDateInvalid, errorSpec{fiber.StatusBadRequest, "medication_end_date_invalid"}},
	{services.ErrMedicationEndBeforeStart, errorSpec{fiber.StatusBadRequest, "medication_end_before_start"}},

	{services.ErrHistoryFromDateInvalid, errorSpec{fiber.StatusBadRequest, "history_from_date_invalid"}},
	{services.ErrHistoryToDateInvalid, errorSpec{fiber.StatusBadRequest, "history_to_date_invalid"}},
	{services.ErrHistoryRangeInvalid, errorSpec{fiber.StatusBadRequest, "history_range_invalid"}},
}

func resolveServiceError(err error) (errorSpec, bool) {
	for _, candidate := range serviceErrors {
		if errors.Is(err, candidate.err) {
			return candidate.spec, true
		}
	}
	return errorSpec{}, false
}

// apiError writes {"error": code, "message": localized message}.
func (handler *Handler) apiError(c *fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": handler.i18n.ErrorMessage(handler.currentLanguage(c), code),
	})
}

// serviceError maps a service failure to its response. Unknown errors are logged
// and reported as internal errors without details.
func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	if spec, ok := resolveServiceError(err); ok {
		return handler.apiError(c, spec.status, spec.code)
	}
	log.Printf("api: %s %s failed: %v", c.Method(), c.Path(), err)
	return handler.apiError(c, fiber.StatusInternalServerError, "internal_error")
}

// ErrorHandler renders framework errors such as unknown routes in the API error shape.
func (handler *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return handler.apiError(c, fiber.StatusNotFound, "not_found")
		case fiber.StatusForbidden:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": fiberErr.Message})
		default:
			if fiberErr.Code < fiber.StatusInternalServerError {
				return handler.apiError(c, fiberErr.Code, "invalid_input")
			}
		}
	}
	log.Printf("api: %s %s failed: %v", c.Method(), c.Path(), err)
	return handler.apiError(c, fiber.StatusInternalServerError, "internal_error")
}
