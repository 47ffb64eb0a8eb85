package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Brown-Sage/StarVault/internal/platform/analytics"
	"github.com/Brown-Sage/StarVault/internal/platform/api"
	"github.com/Brown-Sage/StarVault/internal/platform/httpserver"
)

func Search(svc CatalogService, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			api.BadRequest(w, "MISSING_QUERY", "query is required", httpserver.RequestIDFromContext(r.Context()), nil)
			return
		}
		items, err := svc.Search(r.Context(), query, pageQuery(r))
		if err != nil {
			writeCatalogError(w, r, log, err)
			return
		}
		events.Publish(analytics.SubjectSearchPerformed, "search_performed", "", map[string]any{"query": query, "results": len(items)})
		api.WriteJSON(w, http.StatusOK, listResponse{Results: items})
	}
}
