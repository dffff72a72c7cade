package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("changeme123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "changeme123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := CheckPassword("changeme123", hash); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := GenerateRandomString(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) == 0 || a == b {
		t.Fatalf("expected distinct non-empty strings, got %q and %q", a, b)
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{"owner", "admin", "staff"} {
		if !IsValidRole(role) {
			t.Errorf("expected %q to be valid", role)
		}
	}
	for _, role := range []string{"teacher", "root", ""} {
		if IsValidRole(role) {
			t.Errorf("expected %q to be invalid", role)
		}
	}
}

func TestIsValidUserStatus(t *testing.T) {
	for _, status := range []string{"active", "inactive", "suspended"} {
		if !IsValidUserStatus(status) {
			t.Errorf("expected %q to be valid", status)
		}
	}
	if IsValidUserStatus("deleted") {
		t.Error("expected deleted to be invalid")
	}
}
