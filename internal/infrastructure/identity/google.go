// Package identity verifies Google-issued ID tokens. This is the one point
// in the system that depends on live network reachability to a third party
// (Google's published signing keys); a single failure surfaces immediately
// as a login failure, with no retry.
package identity

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/api/idtoken"

	"github.com/neuroscan/scan-api/internal/core/domain"
)

// GoogleVerifier validates raw ID tokens against the configured OAuth client
// id (the expected audience) and extracts the identity claims.
type GoogleVerifier struct {
	audience string
	log      zerolog.Logger
}

func NewGoogleVerifier(audience string, log zerolog.Logger) *GoogleVerifier {
	return &GoogleVerifier{audience: audience, log: log}
}

func (g *GoogleVerifier) Verify(ctx context.Context, rawCredential string) (*domain.Identity, error) {
	payload, err := idtoken.Validate(ctx, rawCredential, g.audience)
	if err != nil {
		g.log.Warn().Err(err).Msg("google id token rejected")
		return nil, domain.ErrIdentityInvalid
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if payload.Subject == "" || email == "" {
		g.log.Warn().Msg("google id token missing subject or email claim")
		return nil, domain.ErrIdentityInvalid
	}

	return &domain.Identity{
		ExternalID: payload.Subject,
		Email:      email,
		Name:       name,
	}, nil
}
