package recommend

import "strings"

// fallbackImage pairs a lowercase genre substring with a locally served
// poster stand-in.
type fallbackImage struct {
	genre string
	url   string
}

// defaultFallbacks is checked in order; the first genre contained in the
// movie's genre string wins. Order is part of the contract: a movie tagged
// with several of these genres always resolves to the same image.
var defaultFallbacks = []fallbackImage{
	{"action", "/static/fallback/action.jpg"},
	{"drama", "/static/fallback/drama.jpg"},
	{"comedy", "/static/fallback/comedy.jpg"},
	{"horror", "/static/fallback/horror.jpg"},
	{"science fiction", "/static/fallback/scifi.jpg"},
	{"romance", "/static/fallback/romance.jpg"},
}

// defaultFallbackURL decorates movies whose genres match nothing.
const defaultFallbackURL = "/static/fallback/default.jpg"

// FallbackImage returns the deterministic local poster stand-in for a genre
// string.
func FallbackImage(genres string) string {
	lower := strings.ToLower(genres)
	for _, f := range defaultFallbacks {
		if strings.Contains(lower, f.genre) {
			return f.url
		}
	}
	return defaultFallbackURL
}
