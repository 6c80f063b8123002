package domain

// Movie is one immutable catalog entry. Index equals the movie's position in
// the catalog and is assigned at load time.
type Movie struct {
	Index       int
	Title       string
	TMDBID      *int
	ReleaseDate string
	Genres      string
	VoteAverage *float64
	VoteCount   *int

	// Attributes holds the raw column values of the source snapshot, keyed by
	// column name. Feature fusion reads from here so that fused documents are
	// byte-identical across runs regardless of how display fields are parsed.
	Attributes map[string]string
}

// Year returns the leading four characters of the release date, or "" when
// the release date is absent or shorter than a year.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

// RankedMovie is a single recommendation with display metadata.
type RankedMovie struct {
	Title           string   `json:"title"`
	Year            string   `json:"year,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	Genres          string   `json:"genres,omitempty"`
	PosterURL       string   `json:"poster_url,omitempty"`
	MatchPercentage int      `json:"match_percentage"`
	TMDBID          *int     `json:"tmdb_id,omitempty"`
}

// Recommendation is the result of one query against a Ready engine.
type Recommendation struct {
	SearchedTitle string        `json:"searched_movie"`
	MatchedTitle  string        `json:"matched_movie"`
	Movies        []RankedMovie `json:"recommendations"`
}
