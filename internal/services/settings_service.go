package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrSettingsPasswordMissing            = errors.New("settings password missing")
	ErrSettingsPasswordInvalid            = errors.New("settings password invalid")
	ErrSettingsPasswordChangeInvalidInput = errors.New("settings password change invalid input")
	ErrSettingsPasswordMismatch           = errors.New("settings password mismatch")
	ErrSettingsInvalidCurrentPassword     = errors.New("settings invalid current password")
	ErrSettingsNewPasswordMustDiffer      = errors.New("settings new password must differ")
	ErrSettingsWeakPassword               = errors.New("settings weak password")
	ErrSettingsStoreFailed                = errors.New("settings store failed")
)

type SettingsUserRepository interface {
	UpdateName(userID uint, name string) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
	DeleteAccountAndRelatedData(userID uint) error
}

type SettingsService struct {
	users SettingsUserRepository
}

func NewSettingsService(users SettingsUserRepository) *SettingsService {
	return &SettingsService{users: users}
}

func (service *SettingsService) UpdateName(userID uint, raw string) (string, error) {
	name, err := NormalizeUserName(raw)
	if err != nil {
		return "", err
	}
	if err := service.users.UpdateName(userID, name); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSettingsStoreFailed, err)
	}
	return name, nil
}

func (service *SettingsService) ValidatePasswordChange(passwordHash string, currentPassword string, newPassword string, confirmPassword string) error {
	currentPassword = strings.TrimSpace(currentPassword)
	newPassword = strings.TrimSpace(newPassword)
	confirmPassword = strings.TrimSpace(confirmPassword)

	switch {
	case currentPassword == "" || newPassword == "" || confirmPassword == "":
		return ErrSettingsPasswordChangeInvalidInput
	case newPassword != confirmPassword:
		return ErrSettingsPasswordMismatch
	case bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(currentPassword)) != nil:
		return ErrSettingsInvalidCurrentPassword
	case currentPassword == newPassword:
		return ErrSettingsNewPasswordMustDiffer
	case ValidatePasswordStrength(newPassword) != nil:
		return ErrSettingsWeakPassword
	}
	return nil
}

func (service *SettingsService) ChangePassword(userID uint, passwordHash string, currentPassword string, newPassword string, confirmPassword string) error {
	if err := service.ValidatePasswordChange(passwordHash, currentPassword, newPassword, confirmPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(newPassword)), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(userID, string(hash), false); err != nil {
		return fmt.Errorf("%w: %v", ErrSettingsStoreFailed, err)
	}
	return nil
}

// DeleteAccount removes the user with all medications and history after the
// password has been confirmed.
func (service *SettingsService) DeleteAccount(userID uint, passwordHash string, rawPassword string) error {
	password := strings.TrimSpace(rawPassword)
	if password == "" {
		return ErrSettingsPasswordMissing
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return ErrSettingsPasswordInvalid
	}
	if err := service.users.DeleteAccountAndRelatedData(userID); err != nil {
		return fmt.Errorf("%w: %v", ErrSettingsStoreFailed, err)
	}
	return nil
}
