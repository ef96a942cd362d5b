package credential

// Package credential reads access tokens issued by the school API. The
// gateway never verifies signatures (that is the server's job); it only
// decodes the claims payload to learn when the token expires.

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedCredential is returned when a token's claims cannot be
// decoded. Callers treat such a token as already expired.
var ErrMalformedCredential = errors.New("malformed credential")

// Claims is the decoded payload of an access token.
type Claims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// DecodeClaims decodes the claims segment of a token without verifying the
// signature. Any structural or parse failure yields ErrMalformedCredential.
func DecodeClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedCredential)
	}
	claims := new(Claims)
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	return claims, nil
}
