package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/mediplan/internal/models"
	"github.com/terraincognita07/mediplan/internal/schedule"
)

var (
	ErrMedicationNotFound   = errors.New("medication not found")
	ErrMedicationNotActive  = errors.New("medication not active")
	ErrMedicationLoadFailed = errors.New("load medications failed")
	ErrMedicationSaveFailed = errors.New("save medication failed")
	ErrHistoryLoadFailed    = errors.New("load history failed")
)

type MedicationRepository interface {
	ListActiveByUser(userID uint) ([]models.Medication, error)
	FindByUserAndID(userID uint, medicationID uint) (models.Medication, bool, error)
	Create(medication *models.Medication) error
	UpdateActive(medication *models.Medication) (bool, error)
	MarkTaken(medication *models.Medication, at time.Time) (bool, error)
	MarkCompleted(medication *models.Medication, at time.Time) (bool, error)
	Delete(medication *models.Medication, at time.Time) error
}

type MedicationEventRepository interface {
	ListRecentByUser(userID uint, limit int) ([]models.MedicationEvent, error)
	ListByUserInRange(userID uint, from *time.Time, to *time.Time) ([]models.MedicationEvent, error)
}

type FeedPublisher interface {
	Publish(userID uint, event FeedEvent)
}

type MedicationService struct {
	medications MedicationRepository
	events      MedicationEventRepository
	feed        FeedPublisher
	location    *time.Location
}

func NewMedicationService(medications MedicationRepository, events MedicationEventRepository, feed FeedPublisher, location *time.Location) *MedicationService {
	if location == nil {
		location = time.UTC
	}
	return &MedicationService{
		medications: medications,
		events:      events,
		feed:        feed,
		location:    location,
	}
}

func (service *MedicationService) List(userID uint) ([]models.Medication, error) {
	medications, err := service.medications.ListActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMedicationLoadFailed, err)
	}
	return medications, nil
}

func (service *MedicationService) Get(userID uint, medicationID uint) (models.Medication, error) {
	medication, found, err := service.medications.FindByUserAndID(userID, medicationID)
	if err != nil {
		return models.Medication{}, fmt.Errorf("%w: %v", ErrMedicationLoadFailed, err)
	}
	if !found {
		return models.Medication{}, ErrMedicationNotFound
	}
	return medication, nil
}

func (service *MedicationService) Create(userID uint, input MedicationInput) (models.Medication, error) {
	normalized, err := NormalizeMedicationInput(input)
	if err != nil {
		return models.Medication{}, err
	}

	medication := models.Medication{
		UserID:      userID,
		Name:        normalized.Name,
		Description: normalized.Description,
		Dosage:      normalized.Dosage,
		Frequency:   normalized.Frequency,
		StartDate:   normalized.StartDate,
		EndDate:     normalized.EndDate,
		Status:      models.MedicationStatusActive,
	}
	if err := service.medications.Create(&medication); err != nil {
		return models.Medication{}, fmt.Errorf("%w: %v", ErrMedicationSaveFailed, err)
	}
	service.publish(userID, FeedEventCreated, medication.ID)
	return medication, nil
}

// Update edits an active medication. Completed medications are read-only.
func (service *MedicationService) Update(userID uint, medicationID uint, input MedicationInput) (models.Medication, error) {
	normalized, err := NormalizeMedicationInput(input)
	if err != nil {
		return models.Medication{}, err
	}
	medication, err := service.activeMedication(userID, medicationID)
	if err != nil {
		return models.Medication{}, err
	}

	medication.Name = normalized.Name
	medication.Description = normalized.Description
	medication.Dosage = normalized.Dosage
	medication.Frequency = normalized.Frequency
	medication.StartDate = normalized.StartDate
	medication.EndDate = normalized.EndDate
	if err := checkApplied(service.medications.UpdateActive(&medication)); err != nil {
		return models.Medication{}, err
	}
	service.publish(userID, FeedEventUpdated, medication.ID)
	return medication, nil
}

func (service *MedicationService) Delete(userID uint, medicationID uint, now time.Time) error {
	medication, err := service.Get(userID, medicationID)
	if err != nil {
		return err
	}
	if err := service.medications.Delete(&medication, now.UTC()); err != nil {
		return fmt.Errorf("%w: %v", ErrMedicationSaveFailed, err)
	}
	service.publish(userID, FeedEventDeleted, medication.ID)
	return nil
}

func (service *MedicationService) MarkTaken(userID uint, medicationID uint, now time.Time) (models.Medication, error) {
	medication, err := service.activeMedication(userID, medicationID)
	if err != nil {
		return models.Medication{}, err
	}

	takenAt := now.UTC()
	if err := checkApplied(service.medications.MarkTaken(&medication, takenAt)); err != nil {
		return models.Medication{}, err
	}
	medication.LastTakenAt = &takenAt
	service.publish(userID, FeedEventTaken, medication.ID)
	return medication, nil
}

// MarkCompleted ends the course. Completed medications leave the active list and
// the schedule views; the history keeps the completion entry.
func (service *MedicationService) MarkCompleted(userID uint, medicationID uint, now time.Time) (models.Medication, error) {
	medication, err := service.activeMedication(userID, medicationID)
	if err != nil {
		return models.Medication{}, err
	}

	completedAt := now.UTC()
	if err := checkApplied(service.medications.MarkCompleted(&medication, completedAt)); err != nil {
		return models.Medication{}, err
	}
	medication.Status = models.MedicationStatusCompleted
	medication.CompletedAt = &completedAt
	service.publish(userID, FeedEventCompleted, medication.ID)
	return medication, nil
}

// Today returns the user's medications active on the calendar day of now in the
// service location.
func (service *MedicationService) Today(userID uint, now time.Time) ([]models.Medication, error) {
	medications, err := service.List(userID)
	if err != nil {
		return nil, err
	}
	return schedule.ActiveToday(medications, now.In(service.location)), nil
}

// Upcoming returns medications that start after today, earliest first. A positive
// limit keeps only the nearest ones.
func (service *MedicationService) Upcoming(userID uint, now time.Time, limit int) ([]models.Medication, error) {
	medications, err := service.List(userID)
	if err != nil {
		return nil, err
	}
	upcoming := schedule.Upcoming(medications, now.In(service.location))
	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming, nil
}

func (service *MedicationService) History(userID uint, limit int) ([]models.MedicationEvent, error) {
	events, err := service.events.ListRecentByUser(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryLoadFailed, err)
	}
	return events, nil
}

// HistoryInRange returns the entries inside historyRange, oldest first.
func (service *MedicationService) HistoryInRange(userID uint, historyRange HistoryRange) ([]models.MedicationEvent, error) {
	events, err := service.events.ListByUserInRange(userID, historyRange.From, historyRange.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryLoadFailed, err)
	}
	return events, nil
}

func (service *MedicationService) activeMedication(userID uint, medicationID uint) (models.Medication, error) {
	medication, err := service.Get(userID, medicationID)
	if err != nil {
		return models.Medication{}, err
	}
	if medication.Status != models.MedicationStatusActive {
		return models.Medication{}, ErrMedicationNotActive
	}
	return medication, nil
}

// checkApplied turns a conditional write that matched no active row into
// ErrMedicationNotActive.
func checkApplied(applied bool, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMedicationSaveFailed, err)
	}
	if !applied {
		return ErrMedicationNotActive
	}
	return nil
}

func (service *MedicationService) publish(userID uint, kind string, medicationID uint) {
	if service.feed == nil {
		return
	}
	service.feed.Publish(userID, FeedEvent{Kind: kind, MedicationID: medicationID})
}
