package services

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeAuthEmail(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "normalizes case and spaces", raw: " USER@EXAMPLE.COM ", want: "user@example.com"},
		{name: "invalid email returns empty", raw: "not-email", want: ""},
		{name: "empty returns empty", raw: "   ", want: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := NormalizeAuthEmail(testCase.raw); got != testCase.want {
				t.Fatalf("NormalizeAuthEmail(%q) = %q, want %q", testCase.raw, got, testCase.want)
			}
		})
	}
}

func TestNormalizeCredentialsInput(t *testing.T) {
	email, password, err := NormalizeCredentialsInput(" USER@EXAMPLE.COM ", "  StrongPass1  ")
	if err != nil {
		t.Fatalf("expected valid credentials input, got %v", err)
	}
	if email != "user@example.com" {
		t.Fatalf("expected normalized email, got %q", email)
	}
	if password != "StrongPass1" {
		t.Fatalf("expected trimmed password, got %q", password)
	}

	_, _, err = NormalizeCredentialsInput("not-email", "StrongPass1")
	if !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for invalid email, got %v", err)
	}

	_, _, err = NormalizeCredentialsInput("user@example.com", " ")
	if !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for empty password, got %v", err)
	}
}

func TestValidateRecoveryCodeFormat(t *testing.T) {
	if err := ValidateRecoveryCodeFormat("MEDI-ABCD-2345-EFGH"); err != nil {
		t.Fatalf("expected valid recovery code format, got %v", err)
	}
	for _, code := range []string{"MEDI-INVALID", "OVUM-ABCD-2345-EFGH", "medi-abcd-2345-efgh"} {
		if err := ValidateRecoveryCodeFormat(code); !errors.Is(err, ErrAuthRecoveryCodeInvalid) {
			t.Fatalf("expected ErrAuthRecoveryCodeInvalid for %q, got %v", code, err)
		}
	}
}

func TestNormalizeUserName(t *testing.T) {
	name, err := NormalizeUserName("  Ana   Maria  ")
	if err != nil {
		t.Fatalf("expected valid name, got %v", err)
	}
	if name != "Ana Maria" {
		t.Fatalf("expected collapsed whitespace, got %q", name)
	}

	if _, err := NormalizeUserName("   "); !errors.Is(err, ErrAuthNameRequired) {
		t.Fatalf("expected ErrAuthNameRequired, got %v", err)
	}
	if _, err := NormalizeUserName(strings.Repeat("a", maxUserNameLength+1)); !errors.Is(err, ErrAuthNameTooLong) {
		t.Fatalf("expected ErrAuthNameTooLong, got %v", err)
	}
}

func TestNormalizeBirthdate(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "", want: ""},
		{raw: " 29/02/2000 ", want: "29/02/2000"},
		{raw: "18/10/2026", want: "18/10/2026"},
		{raw: "19/10/2026", wantErr: true},
		{raw: "31/12/1899", wantErr: true},
		{raw: "29/02/2001", wantErr: true},
		{raw: "2000-02-29", wantErr: true},
	}

	for _, test := range tests {
		got, err := NormalizeBirthdate(test.raw, "18/10/2026")
		if test.wantErr {
			if !errors.Is(err, ErrAuthBirthdateInvalid) {
				t.Fatalf("NormalizeBirthdate(%q): expected ErrAuthBirthdateInvalid, got %v", test.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NormalizeBirthdate(%q): unexpected error %v", test.raw, err)
		}
		if got != test.want {
			t.Fatalf("NormalizeBirthdate(%q) = %q, want %q", test.raw, got, test.want)
		}
	}
}
