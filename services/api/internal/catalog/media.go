// Package catalog serves normalized media data backed by TMDB, with a
// process-wide TTL cache in front of the list queries.
package catalog

// Kind discriminates the two media variants the application supports.
// Anime is a tv with upstream genre/origin filters applied, never a third kind.
type Kind string

const (
	KindMovie Kind = "movie"
	KindTV    Kind = "tv"
)

// Media is the list-level shape sent to clients. Image URLs are nil when the
// provider has no artwork, never empty strings.
type Media struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Kind        Kind    `json:"type"`
	Rating      float64 `json:"rating"`
	ImageURL    *string `json:"imageUrl"`
	BackdropURL *string `json:"backdropUrl,omitempty"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
}

// CastCredit is one of the top billed cast members on a detail page.
type CastCredit struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Character  string  `json:"character"`
	ProfileURL *string `json:"profileUrl"`
}

// CrewSummary lists the crew roles the detail page surfaces. Names stay in
// upstream billing order and are not deduplicated.
type CrewSummary struct {
	Directors []string `json:"directors"`
	Writers   []string `json:"writers"`
}

// MediaDetail is the full detail-page shape. The Kind determines which of
// the variant fields are populated: movies carry budget/revenue, tv carries
// season/episode counts; the two never mix.
type MediaDetail struct {
	Media
	Genres           []string     `json:"genres"`
	Runtime          *int         `json:"runtime"`
	Status           string       `json:"status"`
	Tagline          string       `json:"tagline"`
	Budget           *int64       `json:"budget,omitempty"`
	Revenue          *int64       `json:"revenue,omitempty"`
	NumberOfSeasons  *int         `json:"numberOfSeasons,omitempty"`
	NumberOfEpisodes *int         `json:"numberOfEpisodes,omitempty"`
	Cast             []CastCredit `json:"cast"`
	Crew             CrewSummary  `json:"crew"`
	TrailerKey       *string      `json:"trailerKey"`
}

// FilmographyItem is one acting credit on a person page.
type FilmographyItem struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Kind        Kind    `json:"type"`
	Character   string  `json:"character"`
	Rating      float64 `json:"rating"`
	ImageURL    *string `json:"imageUrl"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
}

// Person is the person-page shape.
type Person struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Biography    string            `json:"biography"`
	Birthday     *string           `json:"birthday"`
	Deathday     *string           `json:"deathday"`
	PlaceOfBirth *string           `json:"placeOfBirth"`
	ProfileURL   *string           `json:"profileUrl"`
	KnownFor     string            `json:"knownFor"`
	Gender       int               `json:"gender"`
	Homepage     *string           `json:"homepage"`
	AlsoKnownAs  []string          `json:"alsoKnownAs"`
	Filmography  []FilmographyItem `json:"filmography"`
}
