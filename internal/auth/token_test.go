package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestAccessExpiresWithin(t *testing.T) {
	farFuture := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	if AccessExpiresWithin(farFuture, 30*time.Second) {
		t.Fatal("a token valid for an hour is not inside a 30s window")
	}

	soon := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(10 * time.Second).Unix()})
	if !AccessExpiresWithin(soon, 30*time.Second) {
		t.Fatal("a token expiring in 10s is inside a 30s window")
	}

	expired := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})
	if !AccessExpiresWithin(expired, 30*time.Second) {
		t.Fatal("an expired token must report true")
	}
}

func TestAccessExpiresWithinFallsBackOnBadTokens(t *testing.T) {
	if !AccessExpiresWithin("", time.Minute) {
		t.Fatal("empty token must report true")
	}
	if !AccessExpiresWithin("not-a-jwt", time.Minute) {
		t.Fatal("malformed token must report true")
	}
	noExp := signedToken(t, jwt.MapClaims{"sub": "agent-1"})
	if !AccessExpiresWithin(noExp, time.Minute) {
		t.Fatal("token without exp must report true")
	}
}
