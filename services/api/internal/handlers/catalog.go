// Package handlers wires the HTTP surface to the catalog, review and
// account services.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Brown-Sage/StarVault/internal/platform/analytics"
	"github.com/Brown-Sage/StarVault/internal/platform/api"
	"github.com/Brown-Sage/StarVault/internal/platform/httpserver"
	"github.com/Brown-Sage/StarVault/services/api/internal/catalog"
	"github.com/Brown-Sage/StarVault/services/api/internal/tmdb"
)

// CatalogService is the slice of the catalog the HTTP layer needs.
type CatalogService interface {
	Trending(ctx context.Context) ([]catalog.Media, error)
	TopRated(ctx context.Context, kind catalog.Kind, page int) ([]catalog.Media, error)
	Popular(ctx context.Context, kind catalog.Kind, page int) ([]catalog.Media, error)
	Anime(ctx context.Context, bucket catalog.AnimeBucket, page int) ([]catalog.Media, error)
	MovieDetail(ctx context.Context, id int) (*catalog.MediaDetail, error)
	TVDetail(ctx context.Context, id int) (*catalog.MediaDetail, error)
	PersonDetail(ctx context.Context, id int) (*catalog.Person, error)
	Search(ctx context.Context, query string, page int) ([]catalog.Media, error)
}

type listResponse struct {
	Results []catalog.Media `json:"results"`
}

// writeCatalogError maps provider failures onto the error envelope. Upstream
// TMDB failures surface as 502 rather than leaking as empty lists.
func writeCatalogError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	rid := httpserver.RequestIDFromContext(r.Context())
	var ue *tmdb.UpstreamError
	if errors.As(err, &ue) {
		log.Warn("tmdb request failed", zap.Int("upstream_status", ue.Status), zap.Error(err))
		api.BadGateway(w, "UPSTREAM_ERROR", "Media provider request failed", rid, map[string]any{"upstream_status": ue.Status})
		return
	}
	log.Error("catalog request failed", zap.Error(err))
	api.Internal(w, rid)
}

func Trending(svc CatalogService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Trending(r.Context())
		if err != nil {
			writeCatalogError(w, r, log, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, listResponse{Results: items})
	}
}

func TopRated(svc CatalogService, kind catalog.Kind, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.TopRated(r.Context(), kind, pageQuery(r))
		if err != nil {
			writeCatalogError(w, r, log, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, listResponse{Results: items})
	}
}

func Popular(svc CatalogService, kind catalog.Kind, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Popular(r.Context(), kind, pageQuery(r))
		if err != nil {
			writeCatalogError(w, r, log, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, listResponse{Results: items})
	}
}

func Anime(svc CatalogService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bucket := catalog.AnimeBucket(strings.TrimSpace(chi.URLParam(r, "bucket")))
		switch bucket {
		case catalog.AnimeTrending, catalog.AnimePopular, catalog.AnimeTopRated:
		default:
			api.NotFound(w, "UNKNOWN_LIST", "Unknown anime list", httpserver.RequestIDFromContext(r.Context()))
			return
		}
		items, err := svc.Anime(r.Context(), bucket, pageQuery(r))
		if err != nil {
			writeCatalogError(w, r, log, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, listResponse{Results: items})
	}
}

func MovieDetail(svc CatalogService, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return mediaDetail(svc.MovieDetail, "movie", events, log)
}

func TVDetail(svc CatalogService, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return mediaDetail(svc.TVDetail, "tv", events, log)
}

func mediaDetail(fetch func(context.Context, int) (*catalog.MediaDetail, error), kind string, events *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "id must be a positive integer", httpserver.RequestIDFromContext(r.Context()), nil)
			return
		}
		detail, err := fetch(r.Context(), id)
		if err != nil {
			writeCatalogError(w, r, log, err)
			return
		}
		events.Publish(analytics.SubjectDetailViewed, "detail_viewed", "", map[string]any{"media_type": kind, "media_id": id})
		api.WriteJSON(w, http.StatusOK, detail)
	}
}
