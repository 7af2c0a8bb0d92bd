package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired peeks at the exp claim of a JWT bearer token without
// verifying its signature. Signature verification is the backend's job;
// the client only uses the claim to avoid a doomed round-trip. Opaque
// tokens, malformed tokens and tokens without exp are reported as not
// expired so the backend stays the authority.
func tokenExpired(token string, now time.Time) (bool, time.Time) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false, time.Time{}
	}
	if claims.ExpiresAt == nil {
		return false, time.Time{}
	}
	return claims.ExpiresAt.Time.Before(now), claims.ExpiresAt.Time
}
