package catalog

import (
	"context"
	"fmt"

	"github.com/Brown-Sage/StarVault/services/api/internal/tmdb"
)

// Provider is the slice of the TMDB client the catalog depends on.
type Provider interface {
	Trending(ctx context.Context) (*tmdb.ListResponse, error)
	TopRatedMovies(ctx context.Context, page int) (*tmdb.ListResponse, error)
	PopularMovies(ctx context.Context, page int) (*tmdb.ListResponse, error)
	TopRatedTV(ctx context.Context, page int) (*tmdb.ListResponse, error)
	PopularTV(ctx context.Context, page int) (*tmdb.ListResponse, error)
	DiscoverAnime(ctx context.Context, q tmdb.AnimeQuery) (*tmdb.ListResponse, error)
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	MovieCredits(ctx context.Context, id int) (*tmdb.Credits, error)
	MovieVideos(ctx context.Context, id int) (*tmdb.Videos, error)
	TVDetails(ctx context.Context, id int) (*tmdb.TVDetails, error)
	TVCredits(ctx context.Context, id int) (*tmdb.Credits, error)
	TVVideos(ctx context.Context, id int) (*tmdb.Videos, error)
	Person(ctx context.Context, id int) (*tmdb.PersonDetails, error)
	PersonCombinedCredits(ctx context.Context, id int) (*tmdb.CombinedCredits, error)
	SearchMulti(ctx context.Context, query string, page int) (*tmdb.ListResponse, error)
}

// AnimeBucket selects one of the fixed anime list views.
type AnimeBucket string

const (
	AnimeTrending AnimeBucket = "trending"
	AnimePopular  AnimeBucket = "popular"
	AnimeTopRated AnimeBucket = "top-rated"
)

// Service orchestrates the cache, the provider and the normalizer. List
// queries are cached under their logical key; detail, person and search
// queries are never cached since their key space is unbounded.
type Service struct {
	provider Provider
	cache    Cache
}

func NewService(provider Provider, cache Cache) *Service {
	return &Service{provider: provider, cache: cache}
}

func listKey(name string, page int) string {
	if page <= 1 {
		return name
	}
	return fmt.Sprintf("%s:p%d", name, page)
}

// cachedList serves a list query through the cache, fetching and
// normalizing on miss.
func (s *Service) cachedList(key string, fetch func() ([]Media, error)) ([]Media, error) {
	if items, ok := s.cache.Get(key); ok {
		return items, nil
	}
	items, err := fetch()
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, items)
	return items, nil
}

// Trending returns this week's trending mix of movies and TV, with backdrop
// artwork for the hero carousel.
func (s *Service) Trending(ctx context.Context) ([]Media, error) {
	return s.cachedList("trending", func() ([]Media, error) {
		resp, err := s.provider.Trending(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]Media, 0, len(resp.Results))
		for _, it := range resp.Results {
			m, ok := NormalizeMixedItem(it)
			if !ok {
				continue
			}
			items = append(items, withBackdrop(m, it.BackdropPath))
		}
		return items, nil
	})
}

func (s *Service) TopRated(ctx context.Context, kind Kind, page int) ([]Media, error) {
	name := "top-rated-movies"
	fetch := s.provider.TopRatedMovies
	if kind == KindTV {
		name = "top-rated-tv"
		fetch = s.provider.TopRatedTV
	}
	return s.cachedList(listKey(name, page), func() ([]Media, error) {
		resp, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		return normalizeFixedKind(resp.Results, kind), nil
	})
}

func (s *Service) Popular(ctx context.Context, kind Kind, page int) ([]Media, error) {
	name := "popular-movies"
	fetch := s.provider.PopularMovies
	if kind == KindTV {
		name = "popular-tv"
		fetch = s.provider.PopularTV
	}
	return s.cachedList(listKey(name, page), func() ([]Media, error) {
		resp, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		return normalizeFixedKind(resp.Results, kind), nil
	})
}

// Anime serves the three fixed anime views. Anime is tv upstream, filtered
// by genre and origin; the vote-count floors are fixed configuration, not
// user-tunable.
func (s *Service) Anime(ctx context.Context, bucket AnimeBucket, page int) ([]Media, error) {
	var q tmdb.AnimeQuery
	switch bucket {
	case AnimeTopRated:
		q = tmdb.TopRatedAnimeQuery(page)
	case AnimeTrending:
		q = tmdb.TrendingAnimeQuery(page)
	default:
		q = tmdb.PopularAnimeQuery(page)
	}
	return s.cachedList(listKey("anime-"+string(bucket), page), func() ([]Media, error) {
		resp, err := s.provider.DiscoverAnime(ctx, q)
		if err != nil {
			return nil, err
		}
		items := make([]Media, 0, len(resp.Results))
		for _, it := range resp.Results {
			m := NormalizeListItem(it, KindTV)
			if bucket == AnimeTrending {
				m = withBackdrop(m, it.BackdropPath)
			}
			items = append(items, m)
		}
		return items, nil
	})
}

func normalizeFixedKind(results []tmdb.ListItem, kind Kind) []Media {
	items := make([]Media, 0, len(results))
	for _, it := range results {
		items = append(items, NormalizeListItem(it, kind))
	}
	return items
}

// MovieDetail fans out the three sub-fetches concurrently and combines them
// only once all three succeed. A partial detail page is worse than a clean
// error, so any sub-fetch failure fails the whole request.
func (s *Service) MovieDetail(ctx context.Context, id int) (*MediaDetail, error) {
	var (
		details *tmdb.MovieDetails
		credits *tmdb.Credits
		videos  *tmdb.Videos
	)
	err := inParallel(
		func() (err error) { details, err = s.provider.MovieDetails(ctx, id); return },
		func() (err error) { credits, err = s.provider.MovieCredits(ctx, id); return },
		func() (err error) { videos, err = s.provider.MovieVideos(ctx, id); return },
	)
	if err != nil {
		return nil, err
	}
	out := NormalizeMovieDetail(details, credits, videos)
	return &out, nil
}

// TVDetail mirrors MovieDetail for tv shows.
func (s *Service) TVDetail(ctx context.Context, id int) (*MediaDetail, error) {
	var (
		details *tmdb.TVDetails
		credits *tmdb.Credits
		videos  *tmdb.Videos
	)
	err := inParallel(
		func() (err error) { details, err = s.provider.TVDetails(ctx, id); return },
		func() (err error) { credits, err = s.provider.TVCredits(ctx, id); return },
		func() (err error) { videos, err = s.provider.TVVideos(ctx, id); return },
	)
	if err != nil {
		return nil, err
	}
	out := NormalizeTVDetail(details, credits, videos)
	return &out, nil
}

// PersonDetail fetches the person record and filmography concurrently with
// the same all-or-nothing policy as media details.
func (s *Service) PersonDetail(ctx context.Context, id int) (*Person, error) {
	var (
		person  *tmdb.PersonDetails
		credits *tmdb.CombinedCredits
	)
	err := inParallel(
		func() (err error) { person, err = s.provider.Person(ctx, id); return },
		func() (err error) { credits, err = s.provider.PersonCombinedCredits(ctx, id); return },
	)
	if err != nil {
		return nil, err
	}
	out := NormalizePerson(person, credits)
	return &out, nil
}

// Search runs a multi-type search and keeps only movie and tv results.
// Search results are never cached.
func (s *Service) Search(ctx context.Context, query string, page int) ([]Media, error) {
	resp, err := s.provider.SearchMulti(ctx, query, page)
	if err != nil {
		return nil, err
	}
	items := make([]Media, 0, len(resp.Results))
	for _, it := range resp.Results {
		if m, ok := NormalizeMixedItem(it); ok {
			items = append(items, m)
		}
	}
	return items, nil
}

// inParallel runs the fns concurrently and waits for all of them, returning
// the first error encountered. Waiting for stragglers keeps every result
// write finished before the function returns.
func inParallel(fns ...func() error) error {
	errc := make(chan error, len(fns))
	for _, fn := range fns {
		go func(fn func() error) { errc <- fn() }(fn)
	}
	var first error
	for range fns {
		if err := <-errc; err != nil && first == nil {
			first = err
		}
	}
	return first
}
