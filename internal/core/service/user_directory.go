package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/neuroscan/scan-api/internal/core/domain"
	"github.com/neuroscan/scan-api/internal/core/ports"
)

// UserDirectory implements find-or-create over the user store. Email is the
// sole identity key: a user is created on the first login for an email, and
// the Google subject is linked once and never replaced afterwards (first
// writer wins: a later login with a different subject for the same email is
// silently ignored).
type UserDirectory struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserDirectory(repo ports.UserRepository, log zerolog.Logger) *UserDirectory {
	return &UserDirectory{repo: repo, log: log}
}

func (d *UserDirectory) UpsertFromIdentity(ctx context.Context, externalID, email, name string) (*domain.User, error) {
	user, err := d.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		created, err := d.repo.Insert(ctx, &domain.User{
			Name:      name,
			Email:     email,
			GoogleID:  externalID,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return nil, err
		}
		d.log.Info().Str("user_id", created.ID).Msg("user created on first login")
		return created, nil
	}
	if err != nil {
		return nil, err
	}

	if user.GoogleID == "" && externalID != "" {
		if err := d.repo.SetGoogleID(ctx, user.ID, externalID); err != nil {
			return nil, err
		}
		user.GoogleID = externalID
		d.log.Info().Str("user_id", user.ID).Msg("google subject linked to existing user")
	}

	return user, nil
}

func (d *UserDirectory) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return d.repo.FindByID(ctx, id)
}
