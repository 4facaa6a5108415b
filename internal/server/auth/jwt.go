// Package auth issues and verifies the HS256 bearer tokens used by the
// server, and carries the verified Identity through a request context.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the token payload: the registered subject/iat/exp claims plus
// the user's email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Issuer signs tokens. It owns its copy of the secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an Issuer. A nil clock means time.Now.
func NewIssuer(secret []byte, ttl time.Duration, now func() time.Time) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: append([]byte(nil), secret...), ttl: ttl, now: now}
}

// Issue signs a token for the given user and returns it with its claims.
func (i *Issuer) Issue(userID, email string) (string, *Claims, error) {
	if userID == "" {
		return "", nil, errors.New("empty subject")
	}

	issuedAt := jwt.NewNumericDate(i.now())
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  issuedAt,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.ttl)),
		},
		Email: email,
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, claims, nil
}

// Verifier checks signature and expiry. Verify does no I/O and keeps no
// state, so one Verifier serves every request concurrently.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier builds a Verifier. A nil clock means time.Now.
func NewVerifier(secret []byte, now func() time.Time) *Verifier {
	if now == nil {
		now = time.Now
	}
	return &Verifier{secret: append([]byte(nil), secret...), now: now}
}

// Verify validates tokenString and returns the Identity it proves together
// with the token expiry. Errors are one of common.ErrMalformedToken,
// common.ErrInvalidSignature or common.ErrTokenExpired.
//
// A token is expired from the instant now >= exp.
func (v *Verifier) Verify(tokenString string) (Identity, time.Time, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return Identity{}, time.Time{}, classify(err)
	}

	if claims.Subject == "" {
		return Identity{}, time.Time{}, common.ErrMalformedToken
	}

	return Identity{UserID: claims.Subject, Email: claims.Email}, claims.ExpiresAt.Time, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return common.ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		return common.ErrMalformedToken
	}
}
