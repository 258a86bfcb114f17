package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/mediplan/internal/db"
	"github.com/terraincognita07/mediplan/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func seedCLIUser(t *testing.T, dbPath string, email string) {
	t.Helper()

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close(database)

	hash, err := bcrypt.GenerateFromPassword([]byte("OldPass123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{Name: "Ana", Email: email, PasswordHash: string(hash), CreatedAt: time.Now().UTC()}
	if err := db.NewUserRepository(database).Create(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func loadCLIUser(t *testing.T, dbPath string, email string) models.User {
	t.Helper()

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close(database)

	user, err := db.NewUserRepository(database).FindByNormalizedEmail(email)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	return user
}

func TestResetPasswordGeneratesTemporaryPassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	seedCLIUser(t, dbPath, "ana@example.com")

	out := &bytes.Buffer{}
	if err := RunResetPasswordCommand(dbPath, " ANA@example.com ", ResetOptions{}, out); err != nil {
		t.Fatalf("RunResetPasswordCommand returned error: %v", err)
	}

	var temporary string
	for _, line := range strings.Split(out.String(), "\n") {
		if value, ok := strings.CutPrefix(line, "Temporary password: "); ok {
			temporary = value
		}
	}
	if len(temporary) != temporaryPasswordLength {
		t.Fatalf("expected printed temporary password, got output %q", out.String())
	}

	user := loadCLIUser(t, dbPath, "ana@example.com")
	if !user.MustChangePassword {
		t.Fatal("expected must_change_password after generated reset")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(temporary)) != nil {
		t.Fatal("expected stored hash to match printed password")
	}
}

func TestResetPasswordWithPromptedPassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	seedCLIUser(t, dbPath, "ana@example.com")

	prompts := []string{}
	reader := func(prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "Chosen123", nil
	}

	out := &bytes.Buffer{}
	if err := RunResetPasswordCommand(dbPath, "ana@example.com", ResetOptions{ReadPassword: reader}, out); err != nil {
		t.Fatalf("RunResetPasswordCommand returned error: %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("expected password and confirmation prompts, got %v", prompts)
	}
	if strings.Contains(out.String(), "Temporary password") {
		t.Fatalf("did not expect a temporary password, got %q", out.String())
	}

	user := loadCLIUser(t, dbPath, "ana@example.com")
	if user.MustChangePassword {
		t.Fatal("expected operator chosen password not to force a change")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Chosen123")) != nil {
		t.Fatal("expected stored hash to match chosen password")
	}
}

func TestResetPasswordRejectsBadPromptInput(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	seedCLIUser(t, dbPath, "ana@example.com")

	answers := []string{"Chosen123", "Different1"}
	mismatch := func(string) (string, error) {
		answer := answers[0]
		answers = answers[1:]
		return answer, nil
	}
	if err := RunResetPasswordCommand(dbPath, "ana@example.com", ResetOptions{ReadPassword: mismatch}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected mismatch error")
	}

	weak := func(string) (string, error) { return "weakpass", nil }
	if err := RunResetPasswordCommand(dbPath, "ana@example.com", ResetOptions{ReadPassword: weak}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected weak password error")
	}

	failing := func(string) (string, error) { return "", errors.New("no tty") }
	if err := RunResetPasswordCommand(dbPath, "ana@example.com", ResetOptions{ReadPassword: failing}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected reader error")
	}

	user := loadCLIUser(t, dbPath, "ana@example.com")
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("OldPass123")) != nil {
		t.Fatal("expected password to stay unchanged after rejected input")
	}
}

func TestResetPasswordValidatesEmailAndUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	seedCLIUser(t, dbPath, "ana@example.com")

	for _, email := range []string{"", "not-an-email"} {
		if err := RunResetPasswordCommand(dbPath, email, ResetOptions{}, &bytes.Buffer{}); err == nil {
			t.Fatalf("expected error for email %q", email)
		}
	}

	err := RunResetPasswordCommand(dbPath, "missing@example.com", ResetOptions{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}
