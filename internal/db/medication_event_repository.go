package db

import (
	"time"

	"github.com/terraincognita07/mediplan/internal/models"
	"gorm.io/gorm"
)

type MedicationEventRepository struct {
	database *gorm.DB
}

func NewMedicationEventRepository(database *gorm.DB) *MedicationEventRepository {
	return &MedicationEventRepository{database: database}
}

// ListRecentByUser returns history entries newest first. A non-positive limit returns all of them.
func (repo *MedicationEventRepository) ListRecentByUser(userID uint, limit int) ([]models.MedicationEvent, error) {
	query := repo.database.Where("user_id = ?", userID).Order("occurred_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	events := make([]models.MedicationEvent, 0)
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListByUserInRange returns entries with from <= occurred_at < to, oldest first.
// A nil bound leaves that side open.
func (repo *MedicationEventRepository) ListByUserInRange(userID uint, from *time.Time, to *time.Time) ([]models.MedicationEvent, error) {
	query := repo.database.Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("occurred_at >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where("occurred_at < ?", to.UTC())
	}

	events := make([]models.MedicationEvent, 0)
	if err := query.Order("occurred_at ASC, id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
