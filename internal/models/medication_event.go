package models

import "time"

const (
	MedicationActionTaken     = "taken"
	MedicationActionCompleted = "completed"
	MedicationActionDeleted   = "deleted"
)

// MedicationEvent is a history entry. The medication name and dosage are copied so
// the entry survives deletion of the medication itself.
type MedicationEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index:idx_medication_events_user_time" json:"user_id"`
	MedicationID   uint      `gorm:"not null" json:"medication_id"`
	MedicationName string    `gorm:"not null" json:"medication_name"`
	Dosage         string    `gorm:"not null;default:''" json:"dosage"`
	Action         string    `gorm:"not null" json:"action"`
	OccurredAt     time.Time `gorm:"not null;index:idx_medication_events_user_time" json:"occurred_at"`
}
