package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/terraincognita07/mediplan/internal/db"
	"github.com/terraincognita07/mediplan/internal/security"
	"github.com/terraincognita07/mediplan/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const temporaryPasswordLength = 14

type ResetOptions struct {
	// ReadPassword, when set, asks the operator for the new password instead of
	// generating a temporary one.
	ReadPassword PasswordReader
}

// RunResetPasswordCommand replaces the password of the account registered with
// email. A generated password is printed once and must be changed on next login.
func RunResetPasswordCommand(dbPath string, email string, options ResetOptions, out io.Writer) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return fmt.Errorf("invalid email address %q", email)
	}

	password, generated, err := chooseNewPassword(options)
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer db.Close(database)

	users := db.NewUserRepository(database)
	user, err := users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := users.UpdatePassword(user.ID, string(passwordHash), generated); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", normalizedEmail)
	if generated {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
		fmt.Fprintln(out, "The user must change it after the next login.")
	}
	return nil
}

func chooseNewPassword(options ResetOptions) (string, bool, error) {
	if options.ReadPassword == nil {
		password, err := security.TemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return "", false, fmt.Errorf("generate temporary password: %w", err)
		}
		return password, true, nil
	}

	password, err := options.ReadPassword("New password: ")
	if err != nil {
		return "", false, fmt.Errorf("read password: %w", err)
	}
	confirmation, err := options.ReadPassword("Repeat password: ")
	if err != nil {
		return "", false, fmt.Errorf("read password: %w", err)
	}

	password = strings.TrimSpace(password)
	if password != strings.TrimSpace(confirmation) {
		return "", false, errors.New("passwords do not match")
	}
	if err := services.ValidatePasswordStrength(password); err != nil {
		return "", false, errors.New("password needs at least 8 characters with upper case, lower case and a digit")
	}
	return password, false, nil
}
