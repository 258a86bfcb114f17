package models

import "time"

const (
	MedicationStatusActive    = "active"
	MedicationStatusCompleted = "completed"
)

// Medication is owned by a user. StartDate and EndDate hold DD/MM/YYYY strings;
// an empty EndDate means the course has no planned end.
type Medication struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `gorm:"not null;default:''" json:"description"`
	Dosage      string     `gorm:"not null" json:"dosage"`
	Frequency   string     `gorm:"not null" json:"frequency"`
	StartDate   string     `gorm:"not null" json:"start_date"`
	EndDate     string     `gorm:"not null;default:''" json:"end_date"`
	Status      string     `gorm:"not null;default:active;index" json:"status"`
	LastTakenAt *time.Time `json:"last_taken_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
