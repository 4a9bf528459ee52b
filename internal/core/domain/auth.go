package domain

import "errors"

var ErrAuthenticationFailed = errors.New("authentication failed")
var ErrSessionInvalid = errors.New("session invalid")
var ErrTokenInvalid = errors.New("token invalid")
var ErrTokenExpired = errors.New("token expired")
var ErrIdentityInvalid = errors.New("invalid identity credential")

// Identity carries the claims extracted from a verified Google ID token.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
}
