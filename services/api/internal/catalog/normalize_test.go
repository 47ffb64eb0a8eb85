package catalog

import (
	"testing"

	"github.com/Brown-Sage/StarVault/services/api/internal/tmdb"
)

func TestNormalizeListItem_TitleByKind(t *testing.T) {
	movie := NormalizeListItem(tmdb.ListItem{ID: 1, Title: "Fight Club", ReleaseDate: "1999-10-15"}, KindMovie)
	show := NormalizeListItem(tmdb.ListItem{ID: 2, Name: "Dark", FirstAirDate: "2017-12-01"}, KindTV)

	if movie.Title != "Fight Club" {
		t.Fatalf("expected movie title, got %q", movie.Title)
	}
	if show.Title != "Dark" {
		t.Fatalf("expected tv title from name field, got %q", show.Title)
	}
	if movie.ReleaseDate != "1999-10-15" || show.ReleaseDate != "2017-12-01" {
		t.Fatalf("release dates not resolved per kind: %q %q", movie.ReleaseDate, show.ReleaseDate)
	}
}

func TestNormalizeListItem_AbsentPosterIsNil(t *testing.T) {
	m := NormalizeListItem(tmdb.ListItem{ID: 1, Title: "x"}, KindMovie)
	if m.ImageURL != nil {
		t.Fatalf("expected nil imageUrl for absent poster, got %q", *m.ImageURL)
	}

	withPoster := NormalizeListItem(tmdb.ListItem{ID: 1, Title: "x", PosterPath: "/p.jpg"}, KindMovie)
	if withPoster.ImageURL == nil || *withPoster.ImageURL != "https://image.tmdb.org/t/p/w500/p.jpg" {
		t.Fatalf("unexpected imageUrl: %v", withPoster.ImageURL)
	}
}

func TestNormalizeMixedItem_DropsUnsupportedTypes(t *testing.T) {
	if _, ok := NormalizeMixedItem(tmdb.ListItem{ID: 1, MediaType: tmdb.MediaTypePerson}); ok {
		t.Fatal("expected person to be dropped")
	}
	if m, ok := NormalizeMixedItem(tmdb.ListItem{ID: 1, MediaType: tmdb.MediaTypeMovie, Title: "x"}); !ok || m.Kind != KindMovie {
		t.Fatalf("expected movie kept, got ok=%v kind=%q", ok, m.Kind)
	}
	if m, ok := NormalizeMixedItem(tmdb.ListItem{ID: 1, MediaType: tmdb.MediaTypeTV, Name: "y"}); !ok || m.Kind != KindTV {
		t.Fatalf("expected tv kept, got ok=%v kind=%q", ok, m.Kind)
	}
}

func TestNormalizeTVDetail_EmptyEpisodeRuntimeIsAbsent(t *testing.T) {
	d := NormalizeTVDetail(&tmdb.TVDetails{ID: 1, Name: "Dark"}, &tmdb.Credits{}, &tmdb.Videos{})
	if d.Runtime != nil {
		t.Fatalf("expected absent runtime, got %d", *d.Runtime)
	}

	withRuntime := NormalizeTVDetail(&tmdb.TVDetails{ID: 1, Name: "Dark", EpisodeRunTime: []int{55, 60}}, &tmdb.Credits{}, &tmdb.Videos{})
	if withRuntime.Runtime == nil || *withRuntime.Runtime != 55 {
		t.Fatalf("expected first episode runtime 55, got %v", withRuntime.Runtime)
	}
}

func TestNormalizeDetail_VariantFieldsNeverMix(t *testing.T) {
	movie := NormalizeMovieDetail(&tmdb.MovieDetails{ID: 1, Title: "x", Budget: 100, Revenue: 200}, &tmdb.Credits{}, &tmdb.Videos{})
	if movie.Budget == nil || movie.Revenue == nil {
		t.Fatal("expected budget/revenue on movie detail")
	}
	if movie.NumberOfSeasons != nil || movie.NumberOfEpisodes != nil {
		t.Fatal("movie detail must not carry season/episode counts")
	}

	show := NormalizeTVDetail(&tmdb.TVDetails{ID: 1, Name: "y", NumberOfSeasons: 3, NumberOfEpisodes: 26}, &tmdb.Credits{}, &tmdb.Videos{})
	if show.NumberOfSeasons == nil || show.NumberOfEpisodes == nil {
		t.Fatal("expected season/episode counts on tv detail")
	}
	if show.Budget != nil || show.Revenue != nil {
		t.Fatal("tv detail must not carry budget/revenue")
	}
}

func TestNormalizeCast_TruncatedToTen(t *testing.T) {
	credits := &tmdb.Credits{}
	for i := 0; i < 15; i++ {
		credits.Cast = append(credits.Cast, tmdb.CastMember{ID: i, Name: "actor"})
	}
	d := NormalizeMovieDetail(&tmdb.MovieDetails{ID: 1, Title: "x"}, credits, &tmdb.Videos{})
	if len(d.Cast) != 10 {
		t.Fatalf("expected 10 cast members, got %d", len(d.Cast))
	}
	if d.Cast[0].ID != 0 || d.Cast[9].ID != 9 {
		t.Fatal("expected top billed members kept in order")
	}
}

func TestNormalizeCrew_JobsInUpstreamOrder(t *testing.T) {
	credits := &tmdb.Credits{Crew: []tmdb.CrewMember{
		{Name: "A", Job: "Director"},
		{Name: "B", Job: "Screenplay"},
		{Name: "C", Job: "Story"},
		{Name: "B", Job: "Writer"},
		{Name: "D", Job: "Producer"},
	}}
	d := NormalizeMovieDetail(&tmdb.MovieDetails{ID: 1, Title: "x"}, credits, &tmdb.Videos{})
	if len(d.Crew.Directors) != 1 || d.Crew.Directors[0] != "A" {
		t.Fatalf("unexpected directors: %v", d.Crew.Directors)
	}
	// Writers keep upstream order and are not deduplicated.
	want := []string{"B", "C", "B"}
	if len(d.Crew.Writers) != len(want) {
		t.Fatalf("unexpected writers: %v", d.Crew.Writers)
	}
	for i, name := range want {
		if d.Crew.Writers[i] != name {
			t.Fatalf("writers out of order: %v", d.Crew.Writers)
		}
	}
}

func TestTrailerKey_FirstYouTubeTrailerWins(t *testing.T) {
	videos := &tmdb.Videos{Results: []tmdb.Video{
		{Key: "v1", Site: "Vimeo", Type: "Trailer"},
		{Key: "v2", Site: "YouTube", Type: "Teaser"},
		{Key: "v3", Site: "YouTube", Type: "Trailer"},
		{Key: "v4", Site: "YouTube", Type: "Trailer"},
	}}
	d := NormalizeMovieDetail(&tmdb.MovieDetails{ID: 1, Title: "x"}, &tmdb.Credits{}, videos)
	if d.TrailerKey == nil || *d.TrailerKey != "v3" {
		t.Fatalf("expected first matching trailer v3, got %v", d.TrailerKey)
	}
}

func TestTrailerKey_NoMatchIsAbsent(t *testing.T) {
	d := NormalizeMovieDetail(&tmdb.MovieDetails{ID: 1, Title: "x"}, &tmdb.Credits{}, &tmdb.Videos{})
	if d.TrailerKey != nil {
		t.Fatalf("expected absent trailer, got %q", *d.TrailerKey)
	}
}

func TestNormalizePerson_FilmographyAndNullables(t *testing.T) {
	p := NormalizePerson(
		&tmdb.PersonDetails{ID: 7, Name: "Someone", KnownForDepartment: "Acting", Birthday: "1970-01-01"},
		&tmdb.CombinedCredits{Cast: []tmdb.CombinedCredit{
			{ID: 1, MediaType: tmdb.MediaTypeMovie, Title: "Film", Character: "Lead"},
			{ID: 2, MediaType: tmdb.MediaTypeTV, Name: "Show", Character: "Guest"},
			{ID: 3, MediaType: tmdb.MediaTypePerson},
		}},
	)
	if len(p.Filmography) != 2 {
		t.Fatalf("expected 2 filmography items, got %d", len(p.Filmography))
	}
	if p.Filmography[0].Title != "Film" || p.Filmography[1].Title != "Show" {
		t.Fatalf("filmography titles not resolved per kind: %+v", p.Filmography)
	}
	if p.Birthday == nil || *p.Birthday != "1970-01-01" {
		t.Fatalf("expected birthday, got %v", p.Birthday)
	}
	if p.Deathday != nil || p.Homepage != nil {
		t.Fatal("expected absent deathday/homepage to be nil")
	}
	if p.AlsoKnownAs == nil {
		t.Fatal("expected alsoKnownAs to be an empty list, not null")
	}
}
