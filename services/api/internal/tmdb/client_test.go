package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("test-key", srv.URL)
}

func TestTrending_SendsKeyAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trending/all/week" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Fatal("expected api_key query param")
		}
		if r.URL.Query().Get("language") != "en-US" {
			t.Fatal("expected language=en-US")
		}
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":550,"title":"Fight Club","media_type":"movie","vote_average":8.4}]}`))
	})

	resp, err := c.Trending(context.Background())
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != 550 {
		t.Fatalf("unexpected results: %+v", resp.Results)
	}
}

func TestDiscoverAnime_QueryShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("with_genres") != "16" || q.Get("with_origin_country") != "JP" {
			t.Fatalf("missing anime filters: %v", q)
		}
		if q.Get("sort_by") != "vote_average.desc" {
			t.Fatalf("expected vote_average.desc, got %q", q.Get("sort_by"))
		}
		if q.Get("vote_count.gte") != "200" {
			t.Fatalf("expected vote_count.gte=200, got %q", q.Get("vote_count.gte"))
		}
		if q.Get("page") != "2" {
			t.Fatalf("expected page=2, got %q", q.Get("page"))
		}
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	if _, err := c.DiscoverAnime(context.Background(), TopRatedAnimeQuery(2)); err != nil {
		t.Fatalf("discover: %v", err)
	}
}

func TestGet_NonSuccessIsUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_message":"Invalid API key"}`))
	})

	_, err := c.PopularMovies(context.Background(), 1)
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Status != http.StatusUnauthorized {
		t.Fatalf("expected upstream status 401, got %d", ue.Status)
	}
}

func TestGet_MalformedBodyIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	if _, err := c.MovieDetails(context.Background(), 550); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSearchMulti_EscapesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "fight club" {
			t.Fatalf("expected query 'fight club', got %q", got)
		}
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	if _, err := c.SearchMulti(context.Background(), "fight club", 1); err != nil {
		t.Fatalf("search: %v", err)
	}
}
