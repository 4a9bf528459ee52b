package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/neuroscan/scan-api/internal/core/domain"
	"github.com/neuroscan/scan-api/internal/core/ports"
)

// AuthService implements login with a Google identity and session
// resolution. It composes the identity verifier, the user directory, and the
// token codec; callers only ever see a single failure outcome from the login
// chain.
type AuthService struct {
	verifier  ports.IdentityVerifier
	directory *UserDirectory
	codec     *TokenCodec
	log       zerolog.Logger
}

func NewAuthService(verifier ports.IdentityVerifier, directory *UserDirectory, codec *TokenCodec, log zerolog.Logger) *AuthService {
	return &AuthService{verifier: verifier, directory: directory, codec: codec, log: log}
}

// LoginWithIdentity verifies the Google ID token, finds or creates the user
// for its email, and issues a session token. Every failure in the chain is
// reported as domain.ErrAuthenticationFailed; the cause is logged here and
// not exposed to the caller.
func (s *AuthService) LoginWithIdentity(ctx context.Context, rawCredential string) (string, *domain.User, error) {
	identity, err := s.verifier.Verify(ctx, rawCredential)
	if err != nil {
		s.log.Warn().Err(err).Msg("identity verification failed")
		return "", nil, domain.ErrAuthenticationFailed
	}

	user, err := s.directory.UpsertFromIdentity(ctx, identity.ExternalID, identity.Email, identity.Name)
	if err != nil {
		s.log.Error().Err(err).Str("email", identity.Email).Msg("user upsert failed")
		return "", nil, domain.ErrAuthenticationFailed
	}

	token, err := s.codec.Issue(user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("token issuance failed")
		return "", nil, domain.ErrAuthenticationFailed
	}

	return token, user, nil
}

// ResolveSession verifies a session token and loads the user it references.
// Codec failures surface as domain.ErrSessionInvalid without distinguishing
// tampered from expired; a valid token whose user has since disappeared
// surfaces as domain.ErrUserNotFound.
func (s *AuthService) ResolveSession(ctx context.Context, rawToken string) (*domain.User, error) {
	userID, err := s.codec.Verify(rawToken)
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}

	user, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
