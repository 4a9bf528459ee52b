package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")

// User models an account created on first successful Google sign-in.
// Email is the identity key; GoogleID is advisory linkage only and is
// never overwritten once set.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	GoogleID  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
