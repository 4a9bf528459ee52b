package ports

import (
	"context"

	"github.com/neuroscan/scan-api/internal/core/domain"
)

// IdentityVerifier validates a raw Google ID token against the audience it
// was constructed with and extracts the identity claims. Implementations
// return domain.ErrIdentityInvalid on any signature, expiry, audience, or
// malformed-input failure. This is the one call in the system that requires
// live network reachability to a third party; there is no retry policy.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawCredential string) (*domain.Identity, error)
}
