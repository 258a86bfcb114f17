package models

import "time"

type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"not null;default:''" json:"name"`
	Email              string    `gorm:"uniqueIndex;not null" json:"email"`
	Birthdate          string    `gorm:"not null;default:''" json:"birthdate"`
	PasswordHash       string    `gorm:"not null" json:"-"`
	RecoveryCodeHash   string    `gorm:"not null;default:''" json:"-"`
	MustChangePassword bool      `gorm:"not null;default:false" json:"must_change_password"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
}
