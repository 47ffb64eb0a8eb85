package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Brown-Sage/StarVault/internal/platform/api"
	"github.com/Brown-Sage/StarVault/internal/platform/httpserver"
)

func PersonDetail(svc CatalogService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "id must be a positive integer", httpserver.RequestIDFromContext(r.Context()), nil)
			return
		}
		person, err := svc.PersonDetail(r.Context(), id)
		if err != nil {
			writeCatalogError(w, r, log, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, person)
	}
}
