package tmdb

// Media types as reported by TMDB's multi endpoints.
const (
	MediaTypeMovie  = "movie"
	MediaTypeTV     = "tv"
	MediaTypePerson = "person"
)

// ListItem is the shared result block returned by trending, discover,
// top-rated, popular and multi-search endpoints. Movies populate Title and
// ReleaseDate; TV populates Name and FirstAirDate.
type ListItem struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	MediaType    string  `json:"media_type"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
}

type ListResponse struct {
	Page         int        `json:"page"`
	Results      []ListItem `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type MovieDetails struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	Genres       []Genre `json:"genres"`
	Runtime      int     `json:"runtime"`
	Status       string  `json:"status"`
	Tagline      string  `json:"tagline"`
	Budget       int64   `json:"budget"`
	Revenue      int64   `json:"revenue"`
}

type TVDetails struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	VoteAverage      float64 `json:"vote_average"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	Overview         string  `json:"overview"`
	FirstAirDate     string  `json:"first_air_date"`
	Genres           []Genre `json:"genres"`
	EpisodeRunTime   []int   `json:"episode_run_time"`
	Status           string  `json:"status"`
	Tagline          string  `json:"tagline"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
}

type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type Video struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type Videos struct {
	Results []Video `json:"results"`
}

type PersonDetails struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	Biography          string   `json:"biography"`
	Birthday           string   `json:"birthday"`
	Deathday           string   `json:"deathday"`
	PlaceOfBirth       string   `json:"place_of_birth"`
	ProfilePath        string   `json:"profile_path"`
	KnownForDepartment string   `json:"known_for_department"`
	Gender             int      `json:"gender"`
	Homepage           string   `json:"homepage"`
	AlsoKnownAs        []string `json:"also_known_as"`
}

// CombinedCredit is one filmography entry from /person/{id}/combined_credits.
type CombinedCredit struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	MediaType    string  `json:"media_type"`
	Character    string  `json:"character"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
}

type CombinedCredits struct {
	Cast []CombinedCredit `json:"cast"`
}
