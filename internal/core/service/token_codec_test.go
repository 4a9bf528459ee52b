package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neuroscan/scan-api/internal/core/domain"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret")

	token, err := codec.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	userID, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if userID != "user-42" {
		t.Fatalf("expected user-42, got %s", userID)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec("secret")

	// Validly signed token whose expiry has already elapsed.
	claims := jwt.MapClaims{
		"id":  "user-42",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := codec.Verify(raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	token, err := NewTokenCodec("secret-a").Issue("user-42")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := NewTokenCodec("secret-b").Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenCodec_WrongAlgorithm(t *testing.T) {
	codec := NewTokenCodec("secret")

	claims := jwt.MapClaims{
		"id":  "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := codec.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenCodec_MissingSubject(t *testing.T) {
	codec := NewTokenCodec("secret")

	claims := jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := codec.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenCodec_Garbage(t *testing.T) {
	codec := NewTokenCodec("secret")
	if _, err := codec.Verify("not-a-jwt"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
