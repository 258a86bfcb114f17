package services

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/mediplan/internal/schedule"
)

const maxUserNameLength = 80

var (
	ErrAuthCredentialsInvalid  = errors.New("auth credentials invalid")
	ErrAuthRecoveryCodeInvalid = errors.New("auth recovery code invalid")
	ErrAuthNameRequired        = errors.New("auth name required")
	ErrAuthNameTooLong         = errors.New("auth name too long")
	ErrAuthBirthdateInvalid    = errors.New("auth birthdate invalid")
	ErrAuthPasswordMismatch    = errors.New("auth password mismatch")
)

var recoveryCodeFormatRegex = regexp.MustCompile(`^MEDI-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	address, err := mail.ParseAddress(email)
	if err != nil || address.Address != email {
		return ""
	}
	return email
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}

func NormalizeUserName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", ErrAuthNameRequired
	}
	if utf8.RuneCountInString(name) > maxUserNameLength {
		return "", ErrAuthNameTooLong
	}
	return name, nil
}

// NormalizeBirthdate accepts an empty value or a real DD/MM/YYYY calendar day
// no earlier than 1900 and not in the future.
func NormalizeBirthdate(raw string, today string) (string, error) {
	birthdate := strings.TrimSpace(raw)
	if birthdate == "" {
		return "", nil
	}
	day, ok := schedule.ParseDate(birthdate)
	if !ok || day.Year() < 1900 {
		return "", ErrAuthBirthdateInvalid
	}
	if limit, ok := schedule.ParseDate(today); ok && day.After(limit) {
		return "", ErrAuthBirthdateInvalid
	}
	return birthdate, nil
}

func ValidateRecoveryCodeFormat(code string) error {
	if !recoveryCodeFormatRegex.MatchString(strings.TrimSpace(code)) {
		return ErrAuthRecoveryCodeInvalid
	}
	return nil
}
