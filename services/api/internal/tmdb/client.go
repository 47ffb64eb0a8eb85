// Package tmdb is a typed client for the TMDB v3 HTTP API. It is the only
// component in the service that talks to the metadata provider.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// Anime discovery constants: animation genre, Japanese origin, and the
// vote-count floors that keep statistically insignificant entries out.
const (
	animeGenreID          = "16"
	animeOriginCountry    = "JP"
	TopRatedAnimeMinVotes = 200
	TrendingAnimeMinVotes = 50
	sortByPopularityDesc  = "popularity.desc"
	sortByVoteAverageDesc = "vote_average.desc"
)

// UpstreamError reports a non-success response from TMDB. Status carries the
// upstream HTTP status for diagnostics.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("tmdb: status %d body=%q", e.Status, e.Body)
}

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Trending returns this week's trending media across movies and TV.
func (c *Client) Trending(ctx context.Context) (*ListResponse, error) {
	out := new(ListResponse)
	return out, c.get(ctx, "/trending/all/week", nil, out)
}

func (c *Client) TopRatedMovies(ctx context.Context, page int) (*ListResponse, error) {
	out := new(ListResponse)
	return out, c.get(ctx, "/movie/top_rated", pageQuery(page), out)
}

func (c *Client) PopularMovies(ctx context.Context, page int) (*ListResponse, error) {
	out := new(ListResponse)
	return out, c.get(ctx, "/movie/popular", pageQuery(page), out)
}

func (c *Client) TopRatedTV(ctx context.Context, page int) (*ListResponse, error) {
	out := new(ListResponse)
	return out, c.get(ctx, "/tv/top_rated", pageQuery(page), out)
}

func (c *Client) PopularTV(ctx context.Context, page int) (*ListResponse, error) {
	out := new(ListResponse)
	return out, c.get(ctx, "/tv/popular", pageQuery(page), out)
}

// AnimeQuery selects a discover/tv slice of Japanese animation.
type AnimeQuery struct {
	SortBy       string
	MinVoteCount int
	Page         int
}

// PopularAnimeQuery and friends are the fixed query shapes the catalog uses.
func PopularAnimeQuery(page int) AnimeQuery {
	return AnimeQuery{SortBy: sortByPopularityDesc, Page: page}
}

func TopRatedAnimeQuery(page int) AnimeQuery {
	return AnimeQuery{SortBy: sortByVoteAverageDesc, MinVoteCount: TopRatedAnimeMinVotes, Page: page}
}

func TrendingAnimeQuery(page int) AnimeQuery {
	return AnimeQuery{SortBy: sortByPopularityDesc, MinVoteCount: TrendingAnimeMinVotes, Page: page}
}

// DiscoverAnime runs a discover/tv query filtered to the animation genre and
// Japanese origin.
func (c *Client) DiscoverAnime(ctx context.Context, q AnimeQuery) (*ListResponse, error) {
	vals := pageQuery(q.Page)
	vals.Set("with_genres", animeGenreID)
	vals.Set("with_origin_country", animeOriginCountry)
	if q.SortBy != "" {
		vals.Set("sort_by", q.SortBy)
	}
	if q.MinVoteCount > 0 {
		vals.Set("vote_count.gte", strconv.Itoa(q.MinVoteCount))
	}
	out := new(ListResponse)
	return out, c.get(ctx, "/discover/tv", vals, out)
}

func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	out := new(MovieDetails)
	return out, c.get(ctx, "/movie/"+strconv.Itoa(id), nil, out)
}

func (c *Client) MovieCredits(ctx context.Context, id int) (*Credits, error) {
	out := new(Credits)
	return out, c.get(ctx, "/movie/"+strconv.Itoa(id)+"/credits", nil, out)
}

func (c *Client) MovieVideos(ctx context.Context, id int) (*Videos, error) {
	out := new(Videos)
	return out, c.get(ctx, "/movie/"+strconv.Itoa(id)+"/videos", nil, out)
}

func (c *Client) TVDetails(ctx context.Context, id int) (*TVDetails, error) {
	out := new(TVDetails)
	return out, c.get(ctx, "/tv/"+strconv.Itoa(id), nil, out)
}

func (c *Client) TVCredits(ctx context.Context, id int) (*Credits, error) {
	out := new(Credits)
	return out, c.get(ctx, "/tv/"+strconv.Itoa(id)+"/credits", nil, out)
}

func (c *Client) TVVideos(ctx context.Context, id int) (*Videos, error) {
	out := new(Videos)
	return out, c.get(ctx, "/tv/"+strconv.Itoa(id)+"/videos", nil, out)
}

func (c *Client) Person(ctx context.Context, id int) (*PersonDetails, error) {
	out := new(PersonDetails)
	return out, c.get(ctx, "/person/"+strconv.Itoa(id), nil, out)
}

func (c *Client) PersonCombinedCredits(ctx context.Context, id int) (*CombinedCredits, error) {
	out := new(CombinedCredits)
	return out, c.get(ctx, "/person/"+strconv.Itoa(id)+"/combined_credits", nil, out)
}

// SearchMulti queries movies, TV and people in one call. Callers filter the
// media types they support.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*ListResponse, error) {
	vals := pageQuery(page)
	vals.Set("query", query)
	out := new(ListResponse)
	return out, c.get(ctx, "/search/multi", vals, out)
}

func (c *Client) get(ctx context.Context, path string, vals url.Values, out any) error {
	if vals == nil {
		vals = url.Values{}
	}
	vals.Set("api_key", c.APIKey)
	vals.Set("language", "en-US")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+vals.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "starvault-api/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &UpstreamError{Status: resp.StatusCode, Body: string(b[:min(len(b), 200)])}
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("tmdb: decode error: %w body=%q", err, string(b[:min(len(b), 200)]))
	}
	return nil
}

func pageQuery(page int) url.Values {
	vals := url.Values{}
	if page > 0 {
		vals.Set("page", strconv.Itoa(page))
	}
	return vals
}
