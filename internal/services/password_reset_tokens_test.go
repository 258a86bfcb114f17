package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestPasswordResetTokensRoundTrip(t *testing.T) {
	tokens := NewPasswordResetTokens([]byte("test-secret"), 30*time.Minute)
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	passwordHash := "$2a$10$testhashvaluefortokenclaims"

	raw, err := tokens.Issue(42, passwordHash, now)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	claims, err := tokens.Verify(raw, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected UserID=42, got %d", claims.UserID)
	}
	if !claims.MatchesPassword(passwordHash) {
		t.Fatal("expected claims to match the password hash they were issued for")
	}
	if claims.MatchesPassword("$2a$10$anotherhash") {
		t.Fatal("expected claims not to match a different password hash")
	}
}

func TestPasswordResetTokensRejectExpiredToken(t *testing.T) {
	tokens := NewPasswordResetTokens([]byte("test-secret"), 30*time.Minute)
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	raw, err := tokens.Issue(7, "hash", now)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	if _, err := tokens.Verify(raw, now.Add(31*time.Minute)); !errors.Is(err, ErrResetTokenExpired) {
		t.Fatalf("expected ErrResetTokenExpired, got %v", err)
	}
}

func TestPasswordResetTokensRejectForeignSecretAndPurpose(t *testing.T) {
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	issuer := NewPasswordResetTokens([]byte("secret-a"), time.Hour)
	verifier := NewPasswordResetTokens([]byte("secret-b"), time.Hour)

	raw, err := issuer.Issue(7, "hash", now)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	if _, err := verifier.Verify(raw, now); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for foreign secret, got %v", err)
	}

	claims := PasswordResetClaims{
		UserID:  7,
		Purpose: "session",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret-a"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := issuer.Verify(other, now); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for wrong purpose, got %v", err)
	}
}

func TestPasswordResetTokensRejectMissingInput(t *testing.T) {
	tokens := NewPasswordResetTokens([]byte("test-secret"), 0)
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	if _, err := tokens.Verify("   ", now); !errors.Is(err, ErrResetTokenMissing) {
		t.Fatalf("expected ErrResetTokenMissing, got %v", err)
	}
	if _, err := tokens.Issue(0, "hash", now); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for zero user id, got %v", err)
	}
	if _, err := tokens.Issue(1, " ", now); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for empty password hash, got %v", err)
	}
}

func TestGenerateAndNormalizeRecoveryCode(t *testing.T) {
	code, hash, err := GenerateRecoveryCode()
	if err != nil {
		t.Fatalf("GenerateRecoveryCode() unexpected error: %v", err)
	}
	if err := ValidateRecoveryCodeFormat(code); err != nil {
		t.Fatalf("expected generated code %q to be well formed, got %v", code, err)
	}
	if hash == "" || hash == code {
		t.Fatalf("expected hashed recovery code, got %q", hash)
	}

	compact := code[5:9] + code[10:14] + code[15:]
	if got := NormalizeRecoveryCode(" medi " + compact + " "); got != code {
		t.Fatalf("NormalizeRecoveryCode() = %q, want %q", got, code)
	}
}
