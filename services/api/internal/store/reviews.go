// Package store owns the review and reply entities: creation under the
// one-review-per-user-per-media constraint, ownership-checked updates, and
// read queries with author identities resolved.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrDuplicateReview is returned when a user already has a review for
	// the target media. Enforced by the storage layer, not a check-then-insert.
	ErrDuplicateReview = errors.New("review already exists for this user and media")

	// ErrNotFoundOrForbidden covers both a missing review and a review owned
	// by someone else. The two cases are deliberately indistinguishable so
	// review ids cannot be enumerated.
	ErrNotFoundOrForbidden = errors.New("review not found or not owned by user")

	// ErrNotFound is returned when a reply target does not resolve.
	ErrNotFound = errors.New("review not found")
)

// ValidationError reports a malformed review mutation input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Reply is an append-only child of a Review. No edit or delete exists.
type Reply struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserEmail string    `json:"userEmail,omitempty"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// Review carries a denormalized media snapshot so it survives catalog
// changes and cache eviction.
type Review struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	UserEmail        string    `json:"userEmail,omitempty"`
	MediaID          string    `json:"mediaId"`
	MediaKind        string    `json:"mediaType"`
	MediaTitle       string    `json:"mediaTitle"`
	MediaPoster      string    `json:"mediaPoster,omitempty"`
	MediaReleaseDate string    `json:"mediaReleaseDate,omitempty"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	Replies          []Reply   `json:"replies"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// NewReview is the input to Create. Poster and release date are optional.
type NewReview struct {
	UserID           string
	MediaID          string
	MediaKind        string
	MediaTitle       string
	MediaPoster      string
	MediaReleaseDate string
	Rating           int
	Comment          string
}

// ReviewStore is the persistence contract. Both implementations must make
// Create atomic with respect to concurrent attempts for the same
// (user, media) pair: exactly one succeeds, the rest get ErrDuplicateReview.
type ReviewStore interface {
	Create(ctx context.Context, p NewReview) (Review, error)
	ListForMedia(ctx context.Context, mediaID string) ([]Review, error)
	ListByUser(ctx context.Context, userID string) ([]Review, error)
	GetForUserAndMedia(ctx context.Context, userID, mediaID string) (Review, bool, error)
	Update(ctx context.Context, userID, reviewID string, rating int, comment string) (Review, error)
	AddReply(ctx context.Context, userID, reviewID, comment string) (Review, error)
}

func validateRating(rating int) error {
	if rating < 1 || rating > 10 {
		return &ValidationError{Field: "rating", Reason: "must be between 1 and 10"}
	}
	return nil
}

func validateComment(comment string) error {
	if strings.TrimSpace(comment) == "" {
		return &ValidationError{Field: "comment", Reason: "must not be empty"}
	}
	return nil
}

func validateNewReview(p NewReview) error {
	if strings.TrimSpace(p.MediaID) == "" {
		return &ValidationError{Field: "mediaId", Reason: "is required"}
	}
	if p.MediaKind != "movie" && p.MediaKind != "tv" {
		return &ValidationError{Field: "mediaType", Reason: "must be movie or tv"}
	}
	if strings.TrimSpace(p.MediaTitle) == "" {
		return &ValidationError{Field: "mediaTitle", Reason: "is required"}
	}
	if err := validateRating(p.Rating); err != nil {
		return err
	}
	return validateComment(p.Comment)
}
