// Package auth implements the claims authenticator for the legacy REST demo
// (spec §6): it extracts a bearer JWT and reads the Cognito-shaped claims
// the handlers need (email, cognito:username). Grounded on the teacher's
// internal/api/middleware/supabase_auth.go bearer-extraction shape, swapped
// from Supabase's remote verify-token call to local JWT claim parsing since
// the spec's claims carry Cognito field names, not a Supabase user object.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingAuthorization is returned when no bearer token is present.
var ErrMissingAuthorization = errors.New("auth: missing authorization header")

// ErrInvalidToken is returned when the token fails to parse or verify.
var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Claims is the subset of the JWT payload the REST demo relies on.
type Claims struct {
	Email             string `json:"email"`
	CognitoUsername   string `json:"cognito:username"`
	jwt.RegisteredClaims
}

// Authenticator verifies bearer tokens against a fixed signing secret.
type Authenticator struct {
	secret []byte
}

// New builds an Authenticator using secret to verify HMAC-signed tokens.
func New(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Authenticate extracts and verifies the bearer token carried on req.
func (a *Authenticator) Authenticate(req *http.Request) (*Claims, error) {
	header := req.Header.Get("Authorization")
	if header == "" {
		return nil, ErrMissingAuthorization
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, ErrMissingAuthorization
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
