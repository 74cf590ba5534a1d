package services

import (
	"testing"
	"time"
)

func testSigner(adminID, email string, ttl time.Duration) (string, error) {
	return "tok:" + adminID + ":" + email, nil
}

func TestEnsureAdminIdempotent(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, testSigner, time.Hour)

	if err := svc.EnsureAdmin("admin@example.com", "secret123"); err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	first := store.admins["admin@example.com"]
	if first == nil {
		t.Fatal("admin not seeded")
	}
	if first.ID == "" || first.ID[0] != 'a' {
		t.Fatalf("admin id = %q, want a-prefixed id", first.ID)
	}

	if err := svc.EnsureAdmin("admin@example.com", "different"); err != nil {
		t.Fatalf("second EnsureAdmin returned error: %v", err)
	}
	if store.admins["admin@example.com"] != first {
		t.Fatal("second seed replaced the existing admin")
	}
}

func TestEnsureAdminRequiresCredentials(t *testing.T) {
	svc := NewAuthService(newMemStore(), testSigner, time.Hour)
	err := svc.EnsureAdmin("  ", "secret123")
	se, _ := AsServiceError(err)
	if se == nil || se.Code != ErrorInvalid {
		t.Fatalf("error = %v, want invalid", err)
	}
}

func TestLogin(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(store, testSigner, time.Hour)
	if err := svc.EnsureAdmin("admin@example.com", "secret123"); err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}

	res, err := svc.Login("admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Token == "" || res.Admin.Email != "admin@example.com" {
		t.Fatalf("result = %+v", res)
	}

	_, err = svc.Login("admin@example.com", "wrong")
	se, _ := AsServiceError(err)
	if se == nil || se.Code != ErrorUnauthorized {
		t.Fatalf("wrong password error = %v, want unauthorized", err)
	}

	_, err = svc.Login("nobody@example.com", "secret123")
	se, _ = AsServiceError(err)
	if se == nil || se.Code != ErrorUnauthorized {
		t.Fatalf("unknown email error = %v, want unauthorized", err)
	}

	_, err = svc.Login("", "")
	se, _ = AsServiceError(err)
	if se == nil || se.Code != ErrorInvalid {
		t.Fatalf("blank credentials error = %v, want invalid", err)
	}
}

func TestLoginSignsWithConfiguredTTL(t *testing.T) {
	var signedTTL time.Duration
	capture := func(adminID, email string, ttl time.Duration) (string, error) {
		signedTTL = ttl
		return "tok", nil
	}

	store := newMemStore()
	svc := NewAuthService(store, capture, 30*time.Minute)
	if err := svc.EnsureAdmin("admin@example.com", "secret123"); err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if _, err := svc.Login("admin@example.com", "secret123"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if signedTTL != 30*time.Minute {
		t.Fatalf("signed ttl = %v, want 30m", signedTTL)
	}

	// A zero duration falls back to the one-week default.
	svc = NewAuthService(store, capture, 0)
	if _, err := svc.Login("admin@example.com", "secret123"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if signedTTL != 7*24*time.Hour {
		t.Fatalf("default ttl = %v, want 168h", signedTTL)
	}
}
