package authenticator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type standardClaims[T any] struct {
	jwt.RegisteredClaims
	Object T `json:"obj,omitempty"`
}

type jwtTokenEngine[T any] struct {
	Expiration time.Duration

	secret string
	now    func() time.Time
}

func NewTokenEngine[T any](secret string, expiration time.Duration) *jwtTokenEngine[T] {
	return &jwtTokenEngine[T]{
		secret:     secret,
		Expiration: expiration,
		now:        time.Now,
	}
}

// WithNow replaces the clock used to stamp new tokens.
func (e *jwtTokenEngine[T]) WithNow(now func() time.Time) *jwtTokenEngine[T] {
	e.now = now
	return e
}

func (e *jwtTokenEngine[T]) Generate(sub string, obj T) (*Token[T], error) {
	now := e.now().UTC().Truncate(time.Second)
	claims := standardClaims[T]{
		Object: obj,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(e.Expiration)),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   sub,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(e.secret))
	if err != nil {
		return nil, err
	}

	return toToken(t, claims), nil
}

func (e *jwtTokenEngine[T]) Verify(token string) (*Token[T], error) {
	var claims standardClaims[T]
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(e.secret), nil
		},
	)
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors == jwt.ValidationErrorExpired {
			return nil, ErrTokenExpired
		}

		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	return toToken(token, claims), nil
}

func toToken[T any](value string, claims standardClaims[T]) *Token[T] {
	result := &Token[T]{
		Value:   value,
		ID:      claims.ID,
		Subject: claims.Subject,
		Object:  claims.Object,
	}

	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time.UTC()
	}

	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}

	return result
}
