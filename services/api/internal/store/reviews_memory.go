package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// UserResolver turns a user id into a public identity for read responses.
// The in-memory store takes it as a function so tests stay self-contained.
type UserResolver func(userID string) string

// InMemoryReviewStore is a development and test implementation. The single
// mutex makes the duplicate check and insert one atomic step, matching the
// unique-index guarantee of the Postgres store.
type InMemoryReviewStore struct {
	mu       sync.RWMutex
	reviews  map[string]Review // id -> review
	byPair   map[string]string // userID+"\x00"+mediaID -> review id
	resolver UserResolver
}

func NewInMemoryReviewStore(resolver UserResolver) *InMemoryReviewStore {
	if resolver == nil {
		resolver = func(string) string { return "" }
	}
	return &InMemoryReviewStore{
		reviews:  make(map[string]Review),
		byPair:   make(map[string]string),
		resolver: resolver,
	}
}

func pairKey(userID, mediaID string) string { return userID + "\x00" + mediaID }

func (s *InMemoryReviewStore) Create(_ context.Context, p NewReview) (Review, error) {
	if err := validateNewReview(p); err != nil {
		return Review{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(p.UserID, p.MediaID)
	if _, exists := s.byPair[key]; exists {
		return Review{}, ErrDuplicateReview
	}

	now := time.Now().UTC()
	r := Review{
		ID:               uuid.NewString(),
		UserID:           p.UserID,
		MediaID:          p.MediaID,
		MediaKind:        p.MediaKind,
		MediaTitle:       p.MediaTitle,
		MediaPoster:      p.MediaPoster,
		MediaReleaseDate: p.MediaReleaseDate,
		Rating:           p.Rating,
		Comment:          p.Comment,
		Replies:          []Reply{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.reviews[r.ID] = r
	s.byPair[key] = r.ID
	return s.resolved(r), nil
}

func (s *InMemoryReviewStore) ListForMedia(_ context.Context, mediaID string) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Review{}
	for _, r := range s.reviews {
		if r.MediaID == mediaID {
			out = append(out, s.resolved(r))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryReviewStore) ListByUser(_ context.Context, userID string) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Review{}
	for _, r := range s.reviews {
		if r.UserID == userID {
			out = append(out, s.resolved(r))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryReviewStore) GetForUserAndMedia(_ context.Context, userID, mediaID string) (Review, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPair[pairKey(userID, mediaID)]
	if !ok {
		return Review{}, false, nil
	}
	return s.resolved(s.reviews[id]), true, nil
}

func (s *InMemoryReviewStore) Update(_ context.Context, userID, reviewID string, rating int, comment string) (Review, error) {
	if err := validateRating(rating); err != nil {
		return Review{}, err
	}
	if err := validateComment(comment); err != nil {
		return Review{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[reviewID]
	if !ok || r.UserID != userID {
		return Review{}, ErrNotFoundOrForbidden
	}
	r.Rating = rating
	r.Comment = comment
	r.UpdatedAt = time.Now().UTC()
	s.reviews[reviewID] = r
	return s.resolved(r), nil
}

func (s *InMemoryReviewStore) AddReply(_ context.Context, userID, reviewID, comment string) (Review, error) {
	if err := validateComment(comment); err != nil {
		return Review{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[reviewID]
	if !ok {
		return Review{}, ErrNotFound
	}
	r.Replies = append(r.Replies, Reply{
		ID:        uuid.NewString(),
		UserID:    userID,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	})
	s.reviews[reviewID] = r
	return s.resolved(r), nil
}

// resolved returns a copy with author identities filled in and the reply
// slice detached from store-internal state.
func (s *InMemoryReviewStore) resolved(r Review) Review {
	r.UserEmail = s.resolver(r.UserID)
	replies := make([]Reply, len(r.Replies))
	copy(replies, r.Replies)
	for i := range replies {
		replies[i].UserEmail = s.resolver(replies[i].UserID)
	}
	r.Replies = replies
	return r
}

func sortNewestFirst(reviews []Review) {
	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		}
		return reviews[i].ID > reviews[j].ID
	})
}
