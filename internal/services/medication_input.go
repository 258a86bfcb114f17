package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/mediplan/internal/models"
	"github.com/terraincognita07/mediplan/internal/schedule"
)

const (
	maxMedicationNameLength        = 120
	maxMedicationDescriptionLength = 500
	maxMedicationDosageLength      = 60
)

var (
	ErrMedicationNameRequired      = errors.New("medication name required")
	ErrMedicationNameTooLong       = errors.New("medication name too long")
	ErrMedicationDescriptionLong   = errors.New("medication description too long")
	ErrMedicationDosageRequired    = errors.New("medication dosage required")
	ErrMedicationDosageTooLong     = errors.New("medication dosage too long")
	ErrMedicationFrequencyRequired = errors.New("medication frequency required")
	ErrMedicationFrequencyInvalid  = errors.New("medication frequency invalid")
	ErrMedicationStartDateRequired = errors.New("medication start date required")
	ErrMedicationStartDateInvalid  = errors.New("medication start date invalid")
	ErrMedicationEndDateInvalid    = errors.New("medication end date invalid")
	ErrMedicationEndBeforeStart    = errors.New("medication end date before start date")
)

type MedicationInput struct {
	Name        string
	Description string
	Dosage      string
	Frequency   string
	StartDate   string
	EndDate     string
}

// ResolveFrequency maps a catalog key or English label, in any letter case, to the
// stored English label.
func ResolveFrequency(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	for _, frequency := range models.DefaultFrequencies() {
		if strings.EqualFold(value, frequency.Key) || strings.EqualFold(value, frequency.Label) {
			return frequency.Label, true
		}
	}
	return "", false
}

// NormalizeMedicationInput applies the add/edit form rules. Dates may be typed as
// bare digits; they are reshaped to DD/MM/YYYY before validation.
func NormalizeMedicationInput(input MedicationInput) (MedicationInput, error) {
	normalized := MedicationInput{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Dosage:      strings.TrimSpace(input.Dosage),
		Frequency:   strings.TrimSpace(input.Frequency),
		StartDate:   schedule.FormatDateInput(input.StartDate),
		EndDate:     schedule.FormatDateInput(input.EndDate),
	}

	switch {
	case normalized.Name == "":
		return MedicationInput{}, ErrMedicationNameRequired
	case utf8.RuneCountInString(normalized.Name) > maxMedicationNameLength:
		return MedicationInput{}, ErrMedicationNameTooLong
	case utf8.RuneCountInString(normalized.Description) > maxMedicationDescriptionLength:
		return MedicationInput{}, ErrMedicationDescriptionLong
	case normalized.Dosage == "":
		return MedicationInput{}, ErrMedicationDosageRequired
	case utf8.RuneCountInString(normalized.Dosage) > maxMedicationDosageLength:
		return MedicationInput{}, ErrMedicationDosageTooLong
	case normalized.Frequency == "":
		return MedicationInput{}, ErrMedicationFrequencyRequired
	}

	label, ok := ResolveFrequency(normalized.Frequency)
	if !ok {
		return MedicationInput{}, ErrMedicationFrequencyInvalid
	}
	normalized.Frequency = label

	if normalized.StartDate == "" {
		return MedicationInput{}, ErrMedicationStartDateRequired
	}
	start, ok := schedule.ParseDate(normalized.StartDate)
	if !ok {
		return MedicationInput{}, ErrMedicationStartDateInvalid
	}
	if normalized.EndDate != "" {
		end, ok := schedule.ParseDate(normalized.EndDate)
		if !ok {
			return MedicationInput{}, ErrMedicationEndDateInvalid
		}
		if end.Before(start) {
			return MedicationInput{}, ErrMedicationEndBeforeStart
		}
	}
	return normalized, nil
}
