package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo holds display-only claims read from a bearer token.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Describe reads the claims of a JWT without verifying its signature.
//
// The result is for display; the gate never consults it. ok is false for opaque tokens.
func Describe(token string) (info TokenInfo, ok bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, false
	}

	info.Subject = claims.Subject
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}
