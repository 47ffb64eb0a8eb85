package tokens

import (
	"testing"
	"time"

	"github.com/Brown-Sage/StarVault/internal/platform/auth"
)

func newService() Service {
	return Service{
		Secret:         []byte("test-jwt-secret-32-bytes-padded!"),
		AccessTokenTTL: time.Hour,
	}
}

func TestNewAccessToken_HappyPath(t *testing.T) {
	svc := newService()
	now := time.Now().UTC()

	tok, exp, err := svc.NewAccessToken("user-1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok == "" {
		t.Fatal("expected non-empty token")
	}
	if !exp.After(now) {
		t.Fatalf("expected expiry after now, got %v", exp)
	}

	// Roundtrip through the verifier the HTTP layer uses.
	claims, err := auth.JWTVerifier{Secret: svc.Secret}.Parse(tok)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject 'user-1', got %q", claims.Subject)
	}
}

func TestNewAccessToken_MissingSecret(t *testing.T) {
	svc := Service{Secret: nil, AccessTokenTTL: time.Hour}
	_, _, err := svc.NewAccessToken("user-1", time.Now())
	if err == nil {
		t.Fatal("expected error when secret is empty")
	}
}

func TestNewAccessToken_ZeroTime_UsesNow(t *testing.T) {
	svc := newService()
	before := time.Now().Add(-time.Second)
	tok, exp, err := svc.NewAccessToken("user-1", time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exp.After(before) {
		t.Fatalf("expected expiry after 'before', got %v", exp)
	}
	if _, err := (auth.JWTVerifier{Secret: svc.Secret}).Parse(tok); err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
}

func TestNewAccessToken_ExpiredRejectedByVerifier(t *testing.T) {
	svc := Service{
		Secret:         []byte("test-jwt-secret-32-bytes-padded!"),
		AccessTokenTTL: -time.Hour,
	}
	tok, _, err := svc.NewAccessToken("user-1", time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := (auth.JWTVerifier{Secret: svc.Secret}).Parse(tok); err == nil {
		t.Fatal("expected error for expired token")
	}
}
