package services

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type stubSettingsUserRepo struct {
	name         string
	passwordHash string
	deletedID    uint
	err          error
}

func (stub *stubSettingsUserRepo) UpdateName(_ uint, name string) error {
	if stub.err != nil {
		return stub.err
	}
	stub.name = name
	return nil
}

func (stub *stubSettingsUserRepo) UpdatePassword(_ uint, passwordHash string, _ bool) error {
	if stub.err != nil {
		return stub.err
	}
	stub.passwordHash = passwordHash
	return nil
}

func (stub *stubSettingsUserRepo) DeleteAccountAndRelatedData(userID uint) error {
	if stub.err != nil {
		return stub.err
	}
	stub.deletedID = userID
	return nil
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func TestValidatePasswordChange(t *testing.T) {
	service := NewSettingsService(nil)
	passwordHash := mustHashPassword(t, "StrongPass1")

	tests := []struct {
		name    string
		current string
		next    string
		confirm string
		want    error
	}{
		{name: "blank current", current: " ", next: "NewPass12", confirm: "NewPass12", want: ErrSettingsPasswordChangeInvalidInput},
		{name: "mismatch", current: "StrongPass1", next: "NewPass12", confirm: "OtherPass1", want: ErrSettingsPasswordMismatch},
		{name: "wrong current", current: "WrongPass1", next: "NewPass12", confirm: "NewPass12", want: ErrSettingsInvalidCurrentPassword},
		{name: "unchanged", current: "StrongPass1", next: "StrongPass1", confirm: "StrongPass1", want: ErrSettingsNewPasswordMustDiffer},
		{name: "weak", current: "StrongPass1", next: "weakpass", confirm: "weakpass", want: ErrSettingsWeakPassword},
		{name: "valid", current: "StrongPass1", next: "NewPass12", confirm: "NewPass12"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := service.ValidatePasswordChange(passwordHash, test.current, test.next, test.confirm)
			if test.want == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, test.want) {
				t.Fatalf("expected %v, got %v", test.want, err)
			}
		})
	}
}

func TestChangePasswordStoresNewHash(t *testing.T) {
	repo := &stubSettingsUserRepo{}
	service := NewSettingsService(repo)

	if err := service.ChangePassword(1, mustHashPassword(t, "StrongPass1"), "StrongPass1", "NewPass12", "NewPass12"); err != nil {
		t.Fatalf("ChangePassword() unexpected error: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(repo.passwordHash), []byte("NewPass12")) != nil {
		t.Fatal("expected new password hash to be stored")
	}
}

func TestUpdateNameNormalizesAndWrapsStoreErrors(t *testing.T) {
	repo := &stubSettingsUserRepo{}
	service := NewSettingsService(repo)

	name, err := service.UpdateName(1, "  Maya   Lee ")
	if err != nil {
		t.Fatalf("UpdateName() unexpected error: %v", err)
	}
	if name != "Maya Lee" || repo.name != "Maya Lee" {
		t.Fatalf("expected normalized name to be stored, got %q / %q", name, repo.name)
	}

	if _, err := service.UpdateName(1, " "); !errors.Is(err, ErrAuthNameRequired) {
		t.Fatalf("expected ErrAuthNameRequired, got %v", err)
	}

	repo.err = errors.New("disk full")
	if _, err := service.UpdateName(1, "Maya"); !errors.Is(err, ErrSettingsStoreFailed) {
		t.Fatalf("expected ErrSettingsStoreFailed, got %v", err)
	}
}

func TestDeleteAccountRequiresPassword(t *testing.T) {
	repo := &stubSettingsUserRepo{}
	service := NewSettingsService(repo)
	passwordHash := mustHashPassword(t, "StrongPass1")

	if err := service.DeleteAccount(5, passwordHash, "   "); !errors.Is(err, ErrSettingsPasswordMissing) {
		t.Fatalf("expected ErrSettingsPasswordMissing, got %v", err)
	}
	if err := service.DeleteAccount(5, passwordHash, "WrongPass1"); !errors.Is(err, ErrSettingsPasswordInvalid) {
		t.Fatalf("expected ErrSettingsPasswordInvalid, got %v", err)
	}
	if repo.deletedID != 0 {
		t.Fatal("expected no deletion before password confirmation")
	}

	if err := service.DeleteAccount(5, passwordHash, "StrongPass1"); err != nil {
		t.Fatalf("DeleteAccount() unexpected error: %v", err)
	}
	if repo.deletedID != 5 {
		t.Fatalf("expected user 5 to be deleted, got %d", repo.deletedID)
	}
}
