package ports

import (
	"context"

	"github.com/neuroscan/scan-api/internal/core/domain"
)

type AuthService interface {
	// LoginWithIdentity verifies a Google ID token, finds or creates the
	// matching user, and issues a session token for it.
	LoginWithIdentity(ctx context.Context, rawCredential string) (string, *domain.User, error)
	// ResolveSession verifies a session token and loads the user it
	// references.
	ResolveSession(ctx context.Context, rawToken string) (*domain.User, error)
}
