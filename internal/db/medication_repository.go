package db

import (
	"time"

	"github.com/terraincognita07/mediplan/internal/models"
	"gorm.io/gorm"
)

type MedicationRepository struct {
	database *gorm.DB
}

func NewMedicationRepository(database *gorm.DB) *MedicationRepository {
	return &MedicationRepository{database: database}
}

// ListActiveByUser returns the user's medications that were not marked completed,
// oldest first.
func (repo *MedicationRepository) ListActiveByUser(userID uint) ([]models.Medication, error) {
	medications := make([]models.Medication, 0)
	if err := repo.database.
		Where("user_id = ? AND status = ?", userID, models.MedicationStatusActive).
		Order("created_at ASC, id ASC").
		Find(&medications).Error; err != nil {
		return nil, err
	}
	return medications, nil
}

// FindByUserAndID reports found == false when the medication does not exist or
// belongs to another user.
func (repo *MedicationRepository) FindByUserAndID(userID uint, medicationID uint) (models.Medication, bool, error) {
	medication := models.Medication{}
	result := repo.database.
		Where("id = ? AND user_id = ?", medicationID, userID).
		Limit(1).
		Find(&medication)
	if result.Error != nil {
		return models.Medication{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Medication{}, false, nil
	}
	return medication, true, nil
}

func (repo *MedicationRepository) Create(medication *models.Medication) error {
	return repo.database.Create(medication).Error
}

// UpdateActive writes the editable fields of an active medication. It reports
// applied == false when the medication is gone or no longer active.
func (repo *MedicationRepository) UpdateActive(medication *models.Medication) (bool, error) {
	result := activeMedicationRow(repo.database, medication).Updates(map[string]any{
		"name":        medication.Name,
		"description": medication.Description,
		"dosage":      medication.Dosage,
		"frequency":   medication.Frequency,
		"start_date":  medication.StartDate,
		"end_date":    medication.EndDate,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkTaken stamps an active medication and appends the history event in one
// transaction. Nothing is written when the medication is no longer active.
func (repo *MedicationRepository) MarkTaken(medication *models.Medication, at time.Time) (bool, error) {
	return repo.applyToActive(medication, models.MedicationActionTaken, at, map[string]any{
		"last_taken_at": at,
	})
}

func (repo *MedicationRepository) MarkCompleted(medication *models.Medication, at time.Time) (bool, error) {
	return repo.applyToActive(medication, models.MedicationActionCompleted, at, map[string]any{
		"status":       models.MedicationStatusCompleted,
		"completed_at": at,
	})
}

func (repo *MedicationRepository) applyToActive(medication *models.Medication, action string, at time.Time, updates map[string]any) (bool, error) {
	applied := false
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		result := activeMedicationRow(tx, medication).Updates(updates)
		if result.Error != nil || result.RowsAffected == 0 {
			return result.Error
		}
		applied = true
		return tx.Create(newEvent(medication, action, at)).Error
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func activeMedicationRow(database *gorm.DB, medication *models.Medication) *gorm.DB {
	return database.Model(&models.Medication{}).
		Where("id = ? AND user_id = ? AND status = ?", medication.ID, medication.UserID, models.MedicationStatusActive)
}

func (repo *MedicationRepository) Delete(medication *models.Medication, at time.Time) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newEvent(medication, models.MedicationActionDeleted, at)).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Medication{}, medication.ID).Error
	})
}

func newEvent(medication *models.Medication, action string, at time.Time) *models.MedicationEvent {
	return &models.MedicationEvent{
		UserID:         medication.UserID,
		MedicationID:   medication.ID,
		MedicationName: medication.Name,
		Dosage:         medication.Dosage,
		Action:         action,
		OccurredAt:     at,
	}
}
