package authenticator

import (
	"errors"
	"time"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Token[T any] struct {
	Value     string
	ID        string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Object    T
}

type TokenEngine[T any] interface {
	Generate(sub string, obj T) (*Token[T], error)

	// Verify returns ErrTokenExpired if the token was well-formed but its
	// lifetime has passed, ErrTokenInvalid for anything else.
	Verify(token string) (*Token[T], error)
}
