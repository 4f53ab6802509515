package dataset

import (
	"regexp"
	"strings"
)

// Field names a known column of a filmography dataset.
type Field string

const (
	Title       Field = "title"
	Rating      Field = "rating"
	Year        Field = "year"
	Genre       Field = "genre"
	Duration    Field = "duration"
	Votes       Field = "votes"
	ReviewCount Field = "review_count"
	Revenue     Field = "revenue"
)

// RequiredFields lists the columns every dataset must carry.
var RequiredFields = []Field{Rating, Year, Genre, Duration, Title}

// Fields lists every known field in display order.
var Fields = []Field{Title, Rating, Year, Genre, Duration, Votes, ReviewCount, Revenue}

var labels = map[Field]string{
	Title:       "Title",
	Rating:      "Rating",
	Year:        "Year",
	Genre:       "Genre",
	Duration:    "Duration",
	Votes:       "Votes",
	ReviewCount: "Review Count",
	Revenue:     "Revenue",
}

// aliases maps normalized header spellings to fields.
var aliases = map[string]Field{
	"title":            Title,
	"movie":            Title,
	"movie_title":      Title,
	"rating":           Rating,
	"imdb_rating":      Rating,
	"year":             Year,
	"release_year":     Year,
	"genre":            Genre,
	"genres":           Genre,
	"duration":         Duration,
	"runtime":          Duration,
	"runtime_minutes":  Duration,
	"votes":            Votes,
	"num_votes":        Votes,
	"review_count":     ReviewCount,
	"reviewcount":      ReviewCount,
	"reviews":          ReviewCount,
	"revenue":          Revenue,
	"revenue_millions": Revenue,
}

// String returns the canonical column name.
func (f Field) String() string { return string(f) }

// Label returns a human-readable column name.
func (f Field) Label() string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// Numeric reports whether the field holds numbers.
func (f Field) Numeric() bool {
	switch f {
	case Rating, Year, Duration, Votes, ReviewCount, Revenue:
		return true
	}
	return false
}

// optional numeric fields are parsed leniently at load time.
func (f Field) optional() bool {
	return f == Votes || f == ReviewCount || f == Revenue
}

var unitSuffix = regexp.MustCompile(`\s*[\(\[]([^\)\]]+)[\)\]]\s*$`)

// ParseField maps a column header to a known field. Matching ignores case,
// treats spaces, dashes and underscores alike and drops a trailing unit such
// as "(Millions)" or "[min]".
func ParseField(header string) (Field, bool) {
	key := normalizeHeader(header)
	if f, ok := aliases[key]; ok {
		return f, true
	}
	if m := unitSuffix.FindStringSubmatchIndex(header); m != nil {
		if f, ok := aliases[normalizeHeader(header[:m[0]])]; ok {
			return f, true
		}
	}
	return "", false
}

func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}
