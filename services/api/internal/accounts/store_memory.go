package accounts

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryUserStore backs tests and local runs without Postgres.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]userRecord
	byEmail map[string]string // lower(email) -> user id
}

type userRecord struct {
	user User
	hash string
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		byID:    make(map[string]userRecord),
		byEmail: make(map[string]string),
	}
}

func (s *InMemoryUserStore) Create(_ context.Context, email, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(email))
	if _, exists := s.byEmail[key]; exists {
		return User{}, ErrEmailTaken
	}

	u := User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	s.byID[u.ID] = userRecord{user: u, hash: passwordHash}
	s.byEmail[key] = u.ID
	return u, nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (User, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return User{}, "", ErrNotFound
	}
	rec := s.byID[id]
	return rec.user, rec.hash, nil
}
