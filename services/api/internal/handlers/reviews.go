package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Brown-Sage/StarVault/internal/platform/analytics"
	"github.com/Brown-Sage/StarVault/internal/platform/api"
	"github.com/Brown-Sage/StarVault/internal/platform/auth"
	"github.com/Brown-Sage/StarVault/internal/platform/httpserver"
	"github.com/Brown-Sage/StarVault/services/api/internal/store"
)

type createReviewRequest struct {
	MediaID          string `json:"mediaId"`
	MediaType        string `json:"mediaType"`
	MediaTitle       string `json:"mediaTitle"`
	MediaPoster      string `json:"mediaPoster"`
	MediaReleaseDate string `json:"mediaReleaseDate"`
	Rating           int    `json:"rating"`
	Comment          string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type replyRequest struct {
	Comment string `json:"comment"`
}

type reviewListResponse struct {
	Results []store.Review `json:"results"`
}

// writeReviewError maps store errors onto the error envelope. Ownership
// failures are reported as 404 so callers cannot probe which review ids
// exist.
func writeReviewError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	rid := httpserver.RequestIDFromContext(r.Context())
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		api.BadRequest(w, "VALIDATION", ve.Error(), rid, map[string]any{ve.Field: ve.Reason})
	case errors.Is(err, store.ErrDuplicateReview):
		api.Conflict(w, "DUPLICATE_REVIEW", "You have already reviewed this title", rid, nil)
	case errors.Is(err, store.ErrNotFoundOrForbidden), errors.Is(err, store.ErrNotFound):
		api.NotFound(w, "REVIEW_NOT_FOUND", "Review not found", rid)
	default:
		log.Error("review request failed", zap.Error(err))
		api.Internal(w, rid)
	}
}

func CreateReview(reviews store.ReviewStore, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", httpserver.RequestIDFromContext(r.Context()))
			return
		}

		var req createReviewRequest
		if err := decodeJSON(r, &req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "Request body is not valid JSON", httpserver.RequestIDFromContext(r.Context()), nil)
			return
		}

		created, err := reviews.Create(r.Context(), store.NewReview{
			UserID:           userID,
			MediaID:          strings.TrimSpace(req.MediaID),
			MediaKind:        strings.TrimSpace(req.MediaType),
			MediaTitle:       strings.TrimSpace(req.MediaTitle),
			MediaPoster:      strings.TrimSpace(req.MediaPoster),
			MediaReleaseDate: strings.TrimSpace(req.MediaReleaseDate),
			Rating:           req.Rating,
			Comment:          req.Comment,
		})
		if err != nil {
			writeReviewError(w, r, log, err)
			return
		}
		events.Publish(analytics.SubjectReviewCreated, "review_created", userID, map[string]any{"media_id": created.MediaID, "media_type": created.MediaKind, "rating": created.Rating})
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// ListReviewsForMedia is public: browsing reviews requires no account.
func ListReviewsForMedia(reviews store.ReviewStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaID := strings.TrimSpace(chi.URLParam(r, "mediaId"))
		if mediaID == "" {
			api.BadRequest(w, "MISSING_ID", "mediaId is required", httpserver.RequestIDFromContext(r.Context()), nil)
			return
		}
		out, err := reviews.ListForMedia(r.Context(), mediaID)
		if err != nil {
			writeReviewError(w, r, log, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, reviewListResponse{Results: out})
	}
}

func ListMyReviews(reviews store.ReviewStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", httpserver.RequestIDFromContext(r.Context()))
			return
		}
		out, err := reviews.ListByUser(r.Context(), userID)
		if err != nil {
			writeReviewError(w, r, log, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, reviewListResponse{Results: out})
	}
}

// MyReviewForMedia reports whether the caller already reviewed a title, so
// the client can offer edit instead of create.
func MyReviewForMedia(reviews store.ReviewStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", httpserver.RequestIDFromContext(r.Context()))
			return
		}
		mediaID := strings.TrimSpace(chi.URLParam(r, "mediaId"))
		if mediaID == "" {
			api.BadRequest(w, "MISSING_ID", "mediaId is required", httpserver.RequestIDFromContext(r.Context()), nil)
			return
		}
		review, ok, err := reviews.GetForUserAndMedia(r.Context(), userID, mediaID)
		if err != nil {
			writeReviewError(w, r, log, err)
			return
		}
		if !ok {
			api.NotFound(w, "REVIEW_NOT_FOUND", "Review not found", httpserver.RequestIDFromContext(r.Context()))
			return
		}
		api.WriteJSON(w, http.StatusOK, review)
	}
}

func UpdateReview(reviews store.ReviewStore, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", httpserver.RequestIDFromContext(r.Context()))
			return
		}
		reviewID := strings.TrimSpace(chi.URLParam(r, "id"))

		var req updateReviewRequest
		if err := decodeJSON(r, &req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "Request body is not valid JSON", httpserver.RequestIDFromContext(r.Context()), nil)
			return
		}

		updated, err := reviews.Update(r.Context(), userID, reviewID, req.Rating, req.Comment)
		if err != nil {
			writeReviewError(w, r, log, err)
			return
		}
		events.Publish(analytics.SubjectReviewUpdated, "review_updated", userID, map[string]any{"review_id": updated.ID, "rating": updated.Rating})
		api.WriteJSON(w, http.StatusOK, updated)
	}
}

func AddReply(reviews store.ReviewStore, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "AUTH_REQUIRED", "Authentication required", httpserver.RequestIDFromContext(r.Context()))
			return
		}
		reviewID := strings.TrimSpace(chi.URLParam(r, "id"))

		var req replyRequest
		if err := decodeJSON(r, &req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "Request body is not valid JSON", httpserver.RequestIDFromContext(r.Context()), nil)
			return
		}

		updated, err := reviews.AddReply(r.Context(), userID, reviewID, req.Comment)
		if err != nil {
			writeReviewError(w, r, log, err)
			return
		}
		events.Publish(analytics.SubjectReplyAdded, "reply_added", userID, map[string]any{"review_id": updated.ID})
		api.WriteJSON(w, http.StatusCreated, updated)
	}
}
