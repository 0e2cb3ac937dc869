package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHMACService_AccessTokenCarriesRole(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	id := uuid.New()

	tok, err := svc.GenerateAccessToken(id, "dev@example.com", "employer")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	claims, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if claims.UserID != id || claims.Role != "employer" || claims.Email != "dev@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if svc.IsRefreshToken(claims) {
		t.Fatalf("access token reported as refresh")
	}
}

func TestHMACService_RefreshToken(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	tok, err := svc.GenerateRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	claims, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !svc.IsRefreshToken(claims) || claims.Role != "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestHMACService_Expired(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	base := time.Now()
	svc.now = func() time.Time { return base.Add(-2 * time.Hour) }

	tok, err := svc.GenerateAccessToken(uuid.New(), "", "candidate")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	svc.now = func() time.Time { return base }

	if _, err := svc.ValidateToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACService_RejectsForeignSecret(t *testing.T) {
	a := NewHMACService("a", "b", time.Minute, time.Hour)
	other := NewHMACService("x", "y", time.Minute, time.Hour)

	tok, err := other.GenerateAccessToken(uuid.New(), "", "admin")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := a.ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestHMACService_MissingSecret(t *testing.T) {
	svc := NewHMACService("", "", time.Minute, time.Hour)
	if _, err := svc.GenerateAccessToken(uuid.New(), "", "candidate"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
