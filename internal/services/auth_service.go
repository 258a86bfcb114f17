package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/mediplan/internal/models"
	"github.com/terraincognita07/mediplan/internal/schedule"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAuthEmailTaken       = errors.New("auth email already exists")
	ErrRecoveryCodeNotFound = errors.New("recovery code not found")
	ErrAuthUserNotFound     = errors.New("auth user not found")
	ErrAuthStoreFailed      = errors.New("auth store failed")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error
	UpdateRecoveryCodeHash(userID uint, recoveryHash string) error
	ListWithRecoveryCodeHash() ([]models.User, error)
}

type RegistrationInput struct {
	Name            string
	Email           string
	Birthdate       string
	Password        string
	ConfirmPassword string
}

type AuthService struct {
	users       AuthUserRepository
	resetTokens *PasswordResetTokens
	location    *time.Location
}

func NewAuthService(users AuthUserRepository, resetTokens *PasswordResetTokens, location *time.Location) *AuthService {
	if location == nil {
		location = time.UTC
	}
	return &AuthService{users: users, resetTokens: resetTokens, location: location}
}

// Register validates the sign-up form, stores the user and returns the one-time
// recovery code in clear text alongside the created user.
func (service *AuthService) Register(input RegistrationInput, now time.Time) (models.User, string, error) {
	name, err := NormalizeUserName(input.Name)
	if err != nil {
		return models.User{}, "", err
	}
	email, password, err := NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return models.User{}, "", err
	}
	birthdate, err := NormalizeBirthdate(input.Birthdate, schedule.FormatDate(schedule.Today(now.In(service.location))))
	if err != nil {
		return models.User{}, "", err
	}
	if password != strings.TrimSpace(input.ConfirmPassword) {
		return models.User{}, "", ErrAuthPasswordMismatch
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, "", err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("%w: %v", ErrAuthStoreFailed, err)
	}
	if exists {
		return models.User{}, "", ErrAuthEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	recoveryCode, recoveryHash, err := GenerateRecoveryCode()
	if err != nil {
		return models.User{}, "", fmt.Errorf("generate recovery code: %w", err)
	}

	user := models.User{
		Name:             name,
		Email:            email,
		Birthdate:        birthdate,
		PasswordHash:     string(passwordHash),
		RecoveryCodeHash: recoveryHash,
		CreatedAt:        now.UTC(),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, "", ErrAuthEmailTaken
	}
	return user, recoveryCode, nil
}

func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrAuthUserNotFound
	}
	return user, err
}

// StartPasswordRecovery exchanges a recovery code for a password reset token.
func (service *AuthService) StartPasswordRecovery(rawCode string, now time.Time) (string, error) {
	code := NormalizeRecoveryCode(rawCode)
	if err := ValidateRecoveryCodeFormat(code); err != nil {
		return "", err
	}

	user, err := service.findUserByRecoveryCode(code)
	if err != nil {
		return "", err
	}
	return service.resetTokens.Issue(user.ID, user.PasswordHash, now)
}

// CompletePasswordRecovery sets a new password and rotates the recovery code, which
// is returned so the user can store the replacement.
func (service *AuthService) CompletePasswordRecovery(rawToken string, password string, confirmPassword string, now time.Time) (string, error) {
	claims, err := service.resetTokens.Verify(rawToken, now)
	if err != nil {
		return "", err
	}

	password = strings.TrimSpace(password)
	if password == "" || password != strings.TrimSpace(confirmPassword) {
		return "", ErrAuthPasswordMismatch
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	user, err := service.FindByID(claims.UserID)
	if err != nil {
		return "", ErrResetTokenInvalid
	}
	if !claims.MatchesPassword(user.PasswordHash) {
		return "", ErrResetTokenUsed
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	recoveryCode, recoveryHash, err := GenerateRecoveryCode()
	if err != nil {
		return "", fmt.Errorf("generate recovery code: %w", err)
	}

	if err := service.users.UpdatePassword(user.ID, string(passwordHash), false); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthStoreFailed, err)
	}
	if err := service.users.UpdateRecoveryCodeHash(user.ID, recoveryHash); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthStoreFailed, err)
	}
	return recoveryCode, nil
}

func (service *AuthService) findUserByRecoveryCode(code string) (*models.User, error) {
	users, err := service.users.ListWithRecoveryCodeHash()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthStoreFailed, err)
	}

	for index := range users {
		hash := strings.TrimSpace(users[index].RecoveryCodeHash)
		if hash == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil {
			return &users[index], nil
		}
	}
	return nil, ErrRecoveryCodeNotFound
}
