package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// MovieRecord is one row of a filmography dataset.
type MovieRecord struct {
	// Line is the 1-based source line (or sheet row) the record came from.
	Line        int     `json:"line" yaml:"line"`
	Title       string  `json:"title" yaml:"title"`
	Rating      float64 `json:"rating" yaml:"rating"`
	Year        int     `json:"year" yaml:"year"`
	Genre       string  `json:"genre" yaml:"genre"`
	Duration    int     `json:"duration" yaml:"duration"`
	Votes       int     `json:"votes,omitempty" yaml:"votes,omitempty"`
	ReviewCount float64 `json:"review_count,omitempty" yaml:"review_count,omitempty"`
	Revenue     float64 `json:"revenue,omitempty" yaml:"revenue,omitempty"`

	// raw keeps the source text of optional numeric cells; parsed marks
	// which of them held a valid number.
	raw    map[Field]string
	parsed map[Field]bool
}

// NewRecord builds a record from cell text keyed by field. Required numeric
// cells must parse; optional numeric cells are kept even when they don't.
func NewRecord(line int, cells map[Field]string) (MovieRecord, error) {
	r := MovieRecord{
		Line:  line,
		Title: strings.TrimSpace(cells[Title]),
		Genre: strings.TrimSpace(cells[Genre]),
	}
	if v, ok := cells[Rating]; ok {
		f, ok := ParseNumber(v)
		if !ok {
			return MovieRecord{}, &CellError{Field: Rating, Value: v}
		}
		r.Rating = f
	}
	if v, ok := cells[Year]; ok {
		n, ok := parseWhole(v)
		if !ok {
			return MovieRecord{}, &CellError{Field: Year, Value: v}
		}
		r.Year = n
	}
	if v, ok := cells[Duration]; ok {
		n, ok := parseWhole(v)
		if !ok {
			return MovieRecord{}, &CellError{Field: Duration, Value: v}
		}
		r.Duration = n
	}
	for _, f := range []Field{Votes, ReviewCount, Revenue} {
		v, ok := cells[f]
		if !ok {
			continue
		}
		if r.raw == nil {
			r.raw = make(map[Field]string, 3)
			r.parsed = make(map[Field]bool, 3)
		}
		r.raw[f] = v
		x, ok := ParseNumber(v)
		if !ok {
			continue
		}
		if f == Votes {
			n, ok := toInt(x)
			if !ok {
				continue
			}
			r.Votes = n
		}
		r.parsed[f] = true
		switch f {
		case ReviewCount:
			r.ReviewCount = x
		case Revenue:
			r.Revenue = x
		}
	}
	return r, nil
}

// Has reports whether the record carries a usable value for f. Optional
// numeric fields are usable only when their cell parsed.
func (r MovieRecord) Has(f Field) bool {
	if f.optional() {
		return r.parsed[f]
	}
	switch f {
	case Title, Rating, Year, Genre, Duration:
		return true
	}
	return false
}

// Number returns the numeric value of f.
func (r MovieRecord) Number(f Field) (float64, bool) {
	switch f {
	case Rating:
		return r.Rating, true
	case Year:
		return float64(r.Year), true
	case Duration:
		return float64(r.Duration), true
	case Votes:
		return float64(r.Votes), r.parsed[Votes]
	case ReviewCount:
		return r.ReviewCount, r.parsed[ReviewCount]
	case Revenue:
		return r.Revenue, r.parsed[Revenue]
	}
	return 0, false
}

// Text returns f as display text. Optional numeric cells that failed to
// parse are returned verbatim.
func (r MovieRecord) Text(f Field) string {
	switch f {
	case Title:
		return r.Title
	case Genre:
		return r.Genre
	case Year:
		return strconv.Itoa(r.Year)
	case Duration:
		return strconv.Itoa(r.Duration)
	case Rating:
		return strconv.FormatFloat(r.Rating, 'f', -1, 64)
	}
	if f.optional() {
		if !r.parsed[f] {
			return strings.TrimSpace(r.raw[f])
		}
		x, _ := r.Number(f)
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}

// CellError reports a required cell that could not be parsed.
type CellError struct {
	Field Field
	Value string
}

func (e *CellError) Error() string {
	return fmt.Sprintf("column %s: invalid value %q", e.Field, e.Value)
}
