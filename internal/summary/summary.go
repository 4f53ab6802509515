// Package summary computes descriptive views over a loaded filmography
// dataset. Every function is pure: the input dataset is never modified.
package summary

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/filmstats-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmptyDataset indicates an operation that needs at least one row.
	ErrEmptyDataset = errors.New("dataset has no rows")
	// ErrNotNumeric indicates a numeric operation on a text field.
	ErrNotNumeric = errors.New("field is not numeric")
)

// MissingColumnsError lists required columns absent from a dataset.
type MissingColumnsError = dataset.MissingColumnsError

// ValidateColumns checks that every required field is present.
func ValidateColumns(d *dataset.Dataset, required []dataset.Field) error {
	return dataset.ValidateColumns(d, required)
}

// Stats holds the overview figures of a dataset.
type Stats struct {
	Count      int     `json:"count" yaml:"count"`
	MeanRating float64 `json:"mean_rating" yaml:"mean_rating"`
	// MeanRevenue averages the rows that carry revenue; RevenueRows is how
	// many did. Both are zero when the column is absent or empty.
	MeanRevenue float64 `json:"mean_revenue,omitempty" yaml:"mean_revenue,omitempty"`
	RevenueRows int     `json:"revenue_rows,omitempty" yaml:"revenue_rows,omitempty"`
}

// BasicStats returns the row count and mean rating. The mean of an empty
// dataset is NaN.
func BasicStats(d *dataset.Dataset) Stats {
	s := Stats{Count: d.Len(), MeanRating: math.NaN()}
	if s.Count == 0 {
		return s
	}
	ratings := make([]float64, 0, s.Count)
	var revenue []float64
	for _, r := range d.Rows() {
		ratings = append(ratings, r.Rating)
		if v, ok := r.Number(dataset.Revenue); ok {
			revenue = append(revenue, v)
		}
	}
	s.MeanRating = stat.Mean(ratings, nil)
	if len(revenue) > 0 {
		s.MeanRevenue = stat.Mean(revenue, nil)
		s.RevenueRows = len(revenue)
	}
	return s
}

// Head returns the first n rows.
func Head(d *dataset.Dataset, n int) []dataset.MovieRecord {
	if n <= 0 {
		return nil
	}
	rows := d.Rows()
	if n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// Search returns rows whose title contains query, ignoring case.
func Search(d *dataset.Dataset, query string) []dataset.MovieRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []dataset.MovieRecord
	for _, r := range d.Rows() {
		if strings.Contains(strings.ToLower(r.Title), q) {
			out = append(out, r)
		}
	}
	return out
}

// ExtremaBy returns the rows holding the smallest and largest value of
// field. Ties resolve to the earliest row.
func ExtremaBy(d *dataset.Dataset, field dataset.Field) (minRec, maxRec dataset.MovieRecord, err error) {
	if !field.Numeric() {
		return minRec, maxRec, fmt.Errorf("extrema by %s: %w", field, ErrNotNumeric)
	}
	found := false
	var lo, hi float64
	for _, r := range d.Rows() {
		v, ok := r.Number(field)
		if !ok {
			continue
		}
		if !found {
			minRec, maxRec, lo, hi, found = r, r, v, v, true
			continue
		}
		if v < lo {
			minRec, lo = r, v
		}
		if v > hi {
			maxRec, hi = r, v
		}
	}
	if !found {
		return minRec, maxRec, fmt.Errorf("extrema by %s: %w", field, ErrEmptyDataset)
	}
	return minRec, maxRec, nil
}

// CoerceNumeric returns a dataset holding only the rows whose field parses
// as a number. Dropped rows are not reported.
func CoerceNumeric(d *dataset.Dataset, field dataset.Field) *dataset.Dataset {
	return d.Filter(func(r dataset.MovieRecord) bool {
		if field.Numeric() {
			_, ok := r.Number(field)
			return ok
		}
		_, ok := dataset.ParseNumber(r.Text(field))
		return ok
	})
}
