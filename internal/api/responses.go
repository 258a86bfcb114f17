package api

import (
	"time"

	"github.com/samber/lo"
	"github.com/terraincognita07/mediplan/internal/models"
)

type medicationResponse struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Dosage         string     `json:"dosage"`
	Frequency      string     `json:"frequency"`
	FrequencyLabel string     `json:"frequency_label"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	Status         string     `json:"status"`
	LastTakenAt    *time.Time `json:"last_taken_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type historyResponse struct {
	ID             uint      `json:"id"`
	MedicationID   uint      `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	Dosage         string    `json:"dosage"`
	Action         string    `json:"action"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type frequencyResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func (handler *Handler) medicationResponse(language string, medication models.Medication) medicationResponse {
	return medicationResponse{
		ID:             medication.ID,
		Name:           medication.Name,
		Description:    medication.Description,
		Dosage:         medication.Dosage,
		Frequency:      medication.Frequency,
		FrequencyLabel: handler.i18n.LocalizeFrequencyLabel(language, medication.Frequency),
		StartDate:      medication.StartDate,
		EndDate:        medication.EndDate,
		Status:         medication.Status,
		LastTakenAt:    medication.LastTakenAt,
		CompletedAt:    medication.CompletedAt,
		CreatedAt:      medication.CreatedAt,
	}
}

func (handler *Handler) medicationResponses(language string, medications []models.Medication) []medicationResponse {
	return lo.Map(medications, func(medication models.Medication, _ int) medicationResponse {
		return handler.medicationResponse(language, medication)
	})
}

func historyResponses(events []models.MedicationEvent) []historyResponse {
	return lo.Map(events, func(event models.MedicationEvent, _ int) historyResponse {
		return historyResponse{
			ID:             event.ID,
			MedicationID:   event.MedicationID,
			MedicationName: event.MedicationName,
			Dosage:         event.Dosage,
			Action:         event.Action,
			OccurredAt:     event.OccurredAt,
		}
	})
}
