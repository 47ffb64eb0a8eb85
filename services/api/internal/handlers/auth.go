package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Brown-Sage/StarVault/internal/platform/analytics"
	"github.com/Brown-Sage/StarVault/internal/platform/api"
	"github.com/Brown-Sage/StarVault/internal/platform/httpserver"
	"github.com/Brown-Sage/StarVault/services/api/internal/accounts"
)

// AccountService is the slice of accounts the HTTP layer needs.
type AccountService interface {
	Register(ctx context.Context, email, password string) (accounts.Session, error)
	Login(ctx context.Context, email, password string) (accounts.Session, error)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func writeAccountError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	rid := httpserver.RequestIDFromContext(r.Context())
	var ve *accounts.ValidationError
	switch {
	case errors.As(err, &ve):
		api.BadRequest(w, "VALIDATION", ve.Error(), rid, map[string]any{ve.Field: ve.Reason})
	case errors.Is(err, accounts.ErrEmailTaken):
		api.Conflict(w, "EMAIL_TAKEN", "Email is already registered", rid, nil)
	case errors.Is(err, accounts.ErrInvalidCredentials):
		api.Unauthorized(w, "INVALID_CREDENTIALS", "Invalid email or password", rid)
	default:
		log.Error("account request failed", zap.Error(err))
		api.Internal(w, rid)
	}
}

func Register(svc AccountService, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeJSON(r, &req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "Request body is not valid JSON", httpserver.RequestIDFromContext(r.Context()), nil)
			return
		}
		sess, err := svc.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAccountError(w, r, log, err)
			return
		}
		events.Publish(analytics.SubjectAuthRegistered, "auth_registered", sess.User.ID, nil)
		api.WriteJSON(w, http.StatusCreated, sess)
	}
}

func Login(svc AccountService, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeJSON(r, &req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "Request body is not valid JSON", httpserver.RequestIDFromContext(r.Context()), nil)
			return
		}
		sess, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAccountError(w, r, log, err)
			return
		}
		events.Publish(analytics.SubjectAuthLoggedIn, "auth_logged_in", sess.User.ID, nil)
		api.WriteJSON(w, http.StatusOK, sess)
	}
}
