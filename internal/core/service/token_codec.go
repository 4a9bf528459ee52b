package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neuroscan/scan-api/internal/core/domain"
)

// sessionTTL is how long an issued session token stays valid. There is no
// server-side session store; a token dies only by expiring.
const sessionTTL = 7 * 24 * time.Hour

// TokenCodec issues and verifies the signed session tokens handed out at
// login. Tokens are HS256 JWTs carrying the user id and an expiry, signed
// with a process-wide symmetric secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: sessionTTL}
}

// Issue produces a signed token referencing userID. Pure computation, no
// side effects.
func (c *TokenCodec) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the referenced user id.
// Expired tokens fail with domain.ErrTokenExpired, everything else with
// domain.ErrTokenInvalid.
func (c *TokenCodec) Verify(rawToken string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return "", domain.ErrTokenInvalid
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return "", domain.ErrTokenInvalid
	}
	return id, nil
}
