package catalog

import (
	"strings"

	"github.com/Brown-Sage/StarVault/services/api/internal/tmdb"
)

// Image CDN bases. Posters and cast profiles use the medium width, backdrops
// the wide one.
const (
	posterBaseURL   = "https://image.tmdb.org/t/p/w500"
	backdropBaseURL = "https://image.tmdb.org/t/p/w1280"
)

// imageURL joins a provider-relative path onto a CDN base. An absent path
// yields nil, not an empty string.
func imageURL(base, path string) *string {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	u := base + path
	return &u
}

func optString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// NormalizeListItem maps one list result to the canonical Media shape.
// The kind is an explicit discriminator supplied by the caller, never
// inferred from which fields happen to be present.
func NormalizeListItem(it tmdb.ListItem, kind Kind) Media {
	m := Media{
		ID:       it.ID,
		Kind:     kind,
		Rating:   it.VoteAverage,
		ImageURL: imageURL(posterBaseURL, it.PosterPath),
		Overview: it.Overview,
	}
	switch kind {
	case KindMovie:
		m.Title = it.Title
		m.ReleaseDate = it.ReleaseDate
	default:
		m.Title = it.Name
		m.ReleaseDate = it.FirstAirDate
	}
	return m
}

// NormalizeMixedItem maps a multi-type result (trending, multi-search) using
// the provider's media_type discriminator. Results of any other type, such
// as people in a multi search, are dropped.
func NormalizeMixedItem(it tmdb.ListItem) (Media, bool) {
	switch it.MediaType {
	case tmdb.MediaTypeMovie:
		return NormalizeListItem(it, KindMovie), true
	case tmdb.MediaTypeTV:
		return NormalizeListItem(it, KindTV), true
	default:
		return Media{}, false
	}
}

// withBackdrop adds the wide artwork reference; only the trending surfaces
// render backdrops.
func withBackdrop(m Media, backdropPath string) Media {
	m.BackdropURL = imageURL(backdropBaseURL, backdropPath)
	return m
}

func normalizeCast(credits *tmdb.Credits) []CastCredit {
	limit := len(credits.Cast)
	if limit > 10 {
		limit = 10
	}
	cast := make([]CastCredit, 0, limit)
	for _, member := range credits.Cast[:limit] {
		cast = append(cast, CastCredit{
			ID:         member.ID,
			Name:       member.Name,
			Character:  member.Character,
			ProfileURL: imageURL(posterBaseURL, member.ProfilePath),
		})
	}
	return cast
}

func normalizeCrew(credits *tmdb.Credits) CrewSummary {
	out := CrewSummary{Directors: []string{}, Writers: []string{}}
	for _, c := range credits.Crew {
		switch c.Job {
		case "Director":
			out.Directors = append(out.Directors, c.Name)
		case "Writer", "Screenplay", "Story":
			out.Writers = append(out.Writers, c.Name)
		}
	}
	return out
}

// trailerKey picks the first video that is a Trailer hosted on YouTube,
// preserving upstream list order as the tie-break.
func trailerKey(videos *tmdb.Videos) *string {
	for _, v := range videos.Results {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			key := v.Key
			return &key
		}
	}
	return nil
}

func genreNames(genres []tmdb.Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

// NormalizeMovieDetail combines the three movie sub-fetches into one detail
// payload. Pure mapping, no I/O, no errors: missing optional fields degrade
// to absent values.
func NormalizeMovieDetail(d *tmdb.MovieDetails, credits *tmdb.Credits, videos *tmdb.Videos) MediaDetail {
	runtime := d.Runtime
	budget := d.Budget
	revenue := d.Revenue
	return MediaDetail{
		Media: Media{
			ID:          d.ID,
			Title:       d.Title,
			Kind:        KindMovie,
			Rating:      d.VoteAverage,
			ImageURL:    imageURL(posterBaseURL, d.PosterPath),
			BackdropURL: imageURL(backdropBaseURL, d.BackdropPath),
			Overview:    d.Overview,
			ReleaseDate: d.ReleaseDate,
		},
		Genres:     genreNames(d.Genres),
		Runtime:    &runtime,
		Status:     d.Status,
		Tagline:    d.Tagline,
		Budget:     &budget,
		Revenue:    &revenue,
		Cast:       normalizeCast(credits),
		Crew:       normalizeCrew(credits),
		TrailerKey: trailerKey(videos),
	}
}

// NormalizeTVDetail is the tv counterpart. Runtime comes from the first
// episode-run-time entry and is absent when the list is empty.
func NormalizeTVDetail(d *tmdb.TVDetails, credits *tmdb.Credits, videos *tmdb.Videos) MediaDetail {
	var runtime *int
	if len(d.EpisodeRunTime) > 0 {
		runtime = &d.EpisodeRunTime[0]
	}
	seasons := d.NumberOfSeasons
	episodes := d.NumberOfEpisodes
	return MediaDetail{
		Media: Media{
			ID:          d.ID,
			Title:       d.Name,
			Kind:        KindTV,
			Rating:      d.VoteAverage,
			ImageURL:    imageURL(posterBaseURL, d.PosterPath),
			BackdropURL: imageURL(backdropBaseURL, d.BackdropPath),
			Overview:    d.Overview,
			ReleaseDate: d.FirstAirDate,
		},
		Genres:           genreNames(d.Genres),
		Runtime:          runtime,
		Status:           d.Status,
		Tagline:          d.Tagline,
		NumberOfSeasons:  &seasons,
		NumberOfEpisodes: &episodes,
		Cast:             normalizeCast(credits),
		Crew:             normalizeCrew(credits),
		TrailerKey:       trailerKey(videos),
	}
}

// NormalizePerson combines the person record with their combined acting
// credits. Credits of unsupported media types are dropped.
func NormalizePerson(p *tmdb.PersonDetails, credits *tmdb.CombinedCredits) Person {
	filmography := make([]FilmographyItem, 0, len(credits.Cast))
	for _, c := range credits.Cast {
		item := FilmographyItem{
			ID:        c.ID,
			Character: c.Character,
			Rating:    c.VoteAverage,
			ImageURL:  imageURL(posterBaseURL, c.PosterPath),
		}
		switch c.MediaType {
		case tmdb.MediaTypeMovie:
			item.Kind = KindMovie
			item.Title = c.Title
			item.ReleaseDate = c.ReleaseDate
		case tmdb.MediaTypeTV:
			item.Kind = KindTV
			item.Title = c.Name
			item.ReleaseDate = c.FirstAirDate
		default:
			continue
		}
		filmography = append(filmography, item)
	}

	alsoKnownAs := p.AlsoKnownAs
	if alsoKnownAs == nil {
		alsoKnownAs = []string{}
	}

	return Person{
		ID:           p.ID,
		Name:         p.Name,
		Biography:    p.Biography,
		Birthday:     optString(p.Birthday),
		Deathday:     optString(p.Deathday),
		PlaceOfBirth: optString(p.PlaceOfBirth),
		ProfileURL:   imageURL(posterBaseURL, p.ProfilePath),
		KnownFor:     p.KnownForDepartment,
		Gender:       p.Gender,
		Homepage:     optString(p.Homepage),
		AlsoKnownAs:  alsoKnownAs,
		Filmography:  filmography,
	}
}
