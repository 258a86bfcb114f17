package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mediplan/internal/models"
	"github.com/terraincognita07/mediplan/internal/services"
)

type medicationInput struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Dosage      string `json:"dosage" form:"dosage"`
	Frequency   string `json:"frequency" form:"frequency"`
	StartDate   string `json:"start_date" form:"start_date"`
	EndDate     string `json:"end_date" form:"end_date"`
}

func (handler *Handler) ListMedications(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	medications, err := handler.medications.List(user.ID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(handler.medicationResponses(handler.currentLanguage(c), medications))
}

func (handler *Handler) GetMedication(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	medicationID, ok := parseMedicationID(c)
	if !ok {
		return handler.apiError(c, fiber.StatusNotFound, "medication_not_found")
	}

	medication, err := handler.medications.Get(user.ID, medicationID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(handler.medicationResponse(handler.currentLanguage(c), medication))
}

func (handler *Handler) CreateMedication(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input, ok := handler.parseMedicationInput(c)
	if !ok {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	medication, err := handler.medications.Create(user.ID, input)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(handler.medicationResponse(handler.currentLanguage(c), medication))
}

func (handler *Handler) UpdateMedication(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	medicationID, ok := parseMedicationID(c)
	if !ok {
		return handler.apiError(c, fiber.StatusNotFound, "medication_not_found")
	}

	input, ok := handler.parseMedicationInput(c)
	if !ok {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	medication, err := handler.medications.Update(user.ID, medicationID, input)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(handler.medicationResponse(handler.currentLanguage(c), medication))
}

func (handler *Handler) DeleteMedication(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	medicationID, ok := parseMedicationID(c)
	if !ok {
		return handler.apiError(c, fiber.StatusNotFound, "medication_not_found")
	}

	if err := handler.medications.Delete(user.ID, medicationID, handler.now()); err != nil {
		return handler.serviceError(c, err)
	}
	handler.metrics.MedicationAction(models.MedicationActionDeleted)
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) MarkMedicationTaken(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	medicationID, ok := parseMedicationID(c)
	if !ok {
		return handler.apiError(c, fiber.StatusNotFound, "medication_not_found")
	}

	medication, err := handler.medications.MarkTaken(user.ID, medicationID, handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	handler.metrics.MedicationAction(models.MedicationActionTaken)
	return c.JSON(handler.medicationResponse(handler.currentLanguage(c), medication))
}

func (handler *Handler) CompleteMedication(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	medicationID, ok := parseMedicationID(c)
	if !ok {
		return handler.apiError(c, fiber.StatusNotFound, "medication_not_found")
	}

	medication, err := handler.medications.MarkCompleted(user.ID, medicationID, handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	handler.metrics.MedicationAction(models.MedicationActionCompleted)
	return c.JSON(handler.medicationResponse(handler.currentLanguage(c), medication))
}

// parseMedicationInput also accepts localized frequency labels and turns them
// into the catalog key before validation.
func (handler *Handler) parseMedicationInput(c *fiber.Ctx) (services.MedicationInput, bool) {
	input := medicationInput{}
	if err := c.BodyParser(&input); err != nil {
		return services.MedicationInput{}, false
	}

	frequency := input.Frequency
	if resolved, ok := handler.i18n.ResolveFrequency(frequency); ok {
		frequency = resolved.Key
	}
	return services.MedicationInput{
		Name:        input.Name,
		Description: input.Description,
		Dosage:      input.Dosage,
		Frequency:   frequency,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}, true
}

func parseMedicationID(c *fiber.Ctx) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Params("id")), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}
