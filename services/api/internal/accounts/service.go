package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Brown-Sage/StarVault/services/api/internal/tokens"
)

const minPasswordLength = 8

type Service struct {
	Users  UserStore
	Tokens tokens.Service
}

// Session is what a successful register or login hands back to the client.
type Session struct {
	User        User      `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (s Service) Register(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if !isValidEmail(email) {
		return Session{}, &ValidationError{Field: "email", Reason: "invalid"}
	}
	if len(password) < minPasswordLength {
		return Session{}, &ValidationError{Field: "password", Reason: "min length 8"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	u, err := s.Users.Create(ctx, email, string(hash))
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(u)
}

func (s Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Session{}, &ValidationError{Field: "email", Reason: "required"}
	}
	if password == "" {
		return Session{}, &ValidationError{Field: "password", Reason: "required"}
	}

	u, hash, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.issueSession(u)
}

func (s Service) issueSession(u User) (Session, error) {
	access, exp, err := s.Tokens.NewAccessToken(u.ID, time.Now().UTC())
	if err != nil {
		return Session{}, err
	}
	return Session{User: u, AccessToken: access, ExpiresAt: exp}, nil
}
