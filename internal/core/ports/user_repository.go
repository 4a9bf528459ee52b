package ports

import (
	"context"

	"github.com/neuroscan/scan-api/internal/core/domain"
)

// UserRepository defines the interface for user persistence. Email carries a
// unique index; Insert surfaces domain.ErrUserExists on a duplicate.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	// SetGoogleID back-fills the Google subject on an existing user.
	SetGoogleID(ctx context.Context, id, googleID string) error
}
