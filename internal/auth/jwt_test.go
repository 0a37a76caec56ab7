package auth

import (
	"testing"
	"time"
)

func testJWT() *JWTManager {
	return NewJWTManager(JWTConfig{
		Issuer:         "sportsstore",
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 30,
	})
}

func TestJWTManager_AccessRoundTrip(t *testing.T) {
	t.Parallel()

	m := testJWT()
	tok, exp, err := m.SignAccess(7, "admin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if d := time.Until(exp); d <= 14*time.Minute || d > 15*time.Minute {
		t.Fatalf("unexpected access expiry in %v", d)
	}

	claims, err := m.ParseAccess(tok)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if claims.UserID != 7 || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestJWTManager_RejectsWrongKind(t *testing.T) {
	t.Parallel()

	m := testJWT()
	refresh, _, err := m.SignRefresh(7, "user")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := m.ParseAccess(refresh); err == nil {
		t.Fatalf("expected refresh token to be rejected as access token")
	}
	if _, err := m.ParseRefresh(refresh); err != nil {
		t.Fatalf("expected refresh token to parse, got %v", err)
	}
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	t.Parallel()

	m := testJWT()
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, _, err := m.SignAccess(7, "user")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	m.now = time.Now
	if _, err := m.ParseAccess(tok); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestJWTManager_RejectsOtherIssuer(t *testing.T) {
	t.Parallel()

	other := NewJWTManager(JWTConfig{Issuer: "someone-else", AccessSecret: "access-secret", AccessTTLMin: 15})
	tok, _, err := other.SignAccess(7, "user")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := testJWT().ParseAccess(tok); err == nil {
		t.Fatalf("expected foreign issuer to be rejected")
	}
}
