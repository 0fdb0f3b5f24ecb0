package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessExpiresWithin reports whether the access token expires inside the given
// window. The token is decoded without signature verification: the client holds
// no signing key, it only needs the exp claim to refresh proactively instead of
// burning a request on a guaranteed 401. Malformed tokens and tokens without an
// exp claim report true so the caller falls back to the refresh path.
func AccessExpiresWithin(accessToken string, window time.Duration) bool {
	if accessToken == "" {
		return true
	}
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return time.Now().Add(window).After(claims.ExpiresAt.Time)
}
