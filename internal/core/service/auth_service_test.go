package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/neuroscan/scan-api/internal/core/domain"
)

type stubVerifier struct {
	identity *domain.Identity
	err      error
}

func (s *stubVerifier) Verify(_ context.Context, _ string) (*domain.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func newAuthFixture(verifier *stubVerifier) (*AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	directory := NewUserDirectory(repo, zerolog.Nop())
	codec := NewTokenCodec("test-secret")
	return NewAuthService(verifier, directory, codec, zerolog.Nop()), repo
}

func TestAuthService_LoginThenResolve(t *testing.T) {
	verifier := &stubVerifier{identity: &domain.Identity{
		ExternalID: "goog-1",
		Email:      "alice@example.com",
		Name:       "Alice",
	}}
	svc, repo := newAuthFixture(verifier)

	token, user, err := svc.LoginWithIdentity(context.Background(), "raw-google-token")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected session token")
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one user created, got %d", len(repo.users))
	}

	resolved, err := svc.ResolveSession(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.ID != user.ID || resolved.Email != "alice@example.com" {
		t.Fatalf("resolved wrong user: %+v", resolved)
	}
}

func TestAuthService_Login_SecondLoginReusesUser(t *testing.T) {
	verifier := &stubVerifier{identity: &domain.Identity{
		ExternalID: "goog-1",
		Email:      "alice@example.com",
		Name:       "Alice",
	}}
	svc, repo := newAuthFixture(verifier)

	_, first, err := svc.LoginWithIdentity(context.Background(), "t1")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	_, second, err := svc.LoginWithIdentity(context.Background(), "t2")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same user, got %s and %s", first.ID, second.ID)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one user, got %d", len(repo.users))
	}
}

func TestAuthService_Login_VerifierFailure(t *testing.T) {
	svc, repo := newAuthFixture(&stubVerifier{err: domain.ErrIdentityInvalid})

	_, _, err := svc.LoginWithIdentity(context.Background(), "bad-token")
	if !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("no user should be created on verification failure")
	}
}

func TestAuthService_ResolveSession_InvalidToken(t *testing.T) {
	svc, _ := newAuthFixture(&stubVerifier{})
	if _, err := svc.ResolveSession(context.Background(), "garbage"); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestAuthService_ResolveSession_UserGone(t *testing.T) {
	verifier := &stubVerifier{identity: &domain.Identity{
		ExternalID: "goog-1",
		Email:      "gone@example.com",
		Name:       "Gone",
	}}
	svc, repo := newAuthFixture(verifier)

	token, user, err := svc.LoginWithIdentity(context.Background(), "raw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	delete(repo.users, user.ID)

	if _, err := svc.ResolveSession(context.Background(), token); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
