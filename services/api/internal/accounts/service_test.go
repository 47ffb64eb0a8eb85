package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Brown-Sage/StarVault/internal/platform/auth"
	"github.com/Brown-Sage/StarVault/services/api/internal/tokens"
)

func newTestService() Service {
	return Service{
		Users: NewInMemoryUserStore(),
		Tokens: tokens.Service{
			Secret:         []byte("test-jwt-secret-32-bytes-padded!"),
			AccessTokenTTL: time.Hour,
		},
	}
}

func TestRegister_IssuesUsableToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sess, err := svc.Register(ctx, "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sess.User.ID == "" || sess.User.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", sess.User)
	}
	if !sess.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", sess.ExpiresAt)
	}

	claims, err := auth.JWTVerifier{Secret: svc.Tokens.Secret}.Parse(sess.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Subject != sess.User.ID {
		t.Fatalf("token subject %q does not match user id %q", claims.Subject, sess.User.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "correct horse"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "Alice@Example.com", "other password"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"bad email", "not-an-email", "long enough"},
		{"blank email", "   ", "long enough"},
		{"short password", "alice@example.com", "short"},
	}
	for _, tc := range cases {
		var ve *ValidationError
		if _, err := svc.Register(ctx, tc.email, tc.password); !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}

func TestLogin_HappyPath(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	sess, err := svc.Login(ctx, "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.User.ID != reg.User.ID {
		t.Fatalf("expected same user, got %q vs %q", sess.User.ID, reg.User.ID)
	}
	if sess.AccessToken == "" {
		t.Fatal("expected access token")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "correct horse"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(ctx, "alice@example.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Login(context.Background(), "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
