// Package report assembles the summarizer views of a dataset into one
// document and renders it as Markdown, JSON or YAML.
package report

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/filmstats-cli/internal/dataset"
	"github.com/KaramelBytes/filmstats-cli/internal/summary"
	"github.com/rs/zerolog"
)

// Options controls which and how many rows each section shows.
type Options struct {
	// HeadRows is the size of the preview table; 0 hides it.
	HeadRows int
	// TopN limits the top-reviewed and most-voted lists; 0 means all rows.
	TopN int
	// HistogramBins is the duration histogram bin count.
	HistogramBins int
	Logger        zerolog.Logger
}

// DefaultOptions returns reasonable defaults for a report.
func DefaultOptions() Options {
	return Options{
		HeadRows:      5,
		TopN:          5,
		HistogramBins: summary.DefaultBins,
		Logger:        zerolog.Nop(),
	}
}

// Report is the rendered-agnostic content of a dataset summary.
type Report struct {
	Source   string   `json:"source" yaml:"source"`
	Session  string   `json:"session" yaml:"session"`
	Columns  []string `json:"columns" yaml:"columns"`
	Ignored  []string `json:"ignored_columns,omitempty" yaml:"ignored_columns,omitempty"`
	Overview Overview `json:"overview" yaml:"overview"`

	Head          []dataset.MovieRecord `json:"head,omitempty" yaml:"head,omitempty"`
	RatingsByYear []summary.GroupMean   `json:"ratings_by_year" yaml:"ratings_by_year"`
	Genres        []summary.ValueCount  `json:"genres" yaml:"genres"`
	FunFacts      FunFacts              `json:"fun_facts" yaml:"fun_facts"`

	TopReviewed []dataset.MovieRecord `json:"top_reviewed,omitempty" yaml:"top_reviewed,omitempty"`
	// ReviewRowsDropped counts rows whose review count was not numeric.
	ReviewRowsDropped int                   `json:"review_rows_dropped,omitempty" yaml:"review_rows_dropped,omitempty"`
	MostVoted         []dataset.MovieRecord `json:"most_voted,omitempty" yaml:"most_voted,omitempty"`

	DurationHistogram []summary.Bin `json:"duration_histogram" yaml:"duration_histogram"`
	VotesVsRating     *Correlation  `json:"votes_vs_rating,omitempty" yaml:"votes_vs_rating,omitempty"`

	Notes []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Overview holds the headline figures. Nil means "not available".
type Overview struct {
	Movies      int      `json:"movies" yaml:"movies"`
	MeanRating  *float64 `json:"mean_rating" yaml:"mean_rating"`
	MeanRevenue *float64 `json:"mean_revenue_millions,omitempty" yaml:"mean_revenue_millions,omitempty"`
}

// FunFacts lists the extrema the dashboard highlighted.
type FunFacts struct {
	Longest     dataset.MovieRecord `json:"longest" yaml:"longest"`
	Shortest    dataset.MovieRecord `json:"shortest" yaml:"shortest"`
	HighestRate dataset.MovieRecord `json:"highest_rated" yaml:"highest_rated"`
	LowestRate  dataset.MovieRecord `json:"lowest_rated" yaml:"lowest_rated"`
}

// Correlation is a Pearson coefficient over N paired rows; R is nil when
// it cannot be computed.
type Correlation struct {
	R *float64 `json:"r" yaml:"r"`
	N int      `json:"n" yaml:"n"`
}

// Build computes every section for d. A dataset missing required columns
// or holding no rows yields an error and no report.
func Build(d *dataset.Dataset, opt Options) (*Report, error) {
	log := opt.Logger.With().Str("session", d.ID()).Logger()
	if err := summary.ValidateColumns(d, dataset.RequiredFields); err != nil {
		return nil, err
	}
	if d.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", d.Name(), summary.ErrEmptyDataset)
	}

	r := &Report{Source: d.Name(), Session: d.ID(), Ignored: d.ExtraColumns()}
	for _, c := range d.Columns() {
		r.Columns = append(r.Columns, c.Label())
	}
	stats := summary.BasicStats(d)
	r.Overview = Overview{Movies: stats.Count, MeanRating: finite(stats.MeanRating)}
	if stats.RevenueRows > 0 {
		r.Overview.MeanRevenue = finite(stats.MeanRevenue)
	}
	r.Head = summary.Head(d, opt.HeadRows)

	var err error
	if r.RatingsByYear, err = summary.GroupedMean(d, dataset.Year, dataset.Rating); err != nil {
		return nil, err
	}
	if r.Genres, err = summary.TopNByFrequency(d, dataset.Genre, 0); err != nil {
		return nil, err
	}
	if r.FunFacts.Shortest, r.FunFacts.Longest, err = summary.ExtremaBy(d, dataset.Duration); err != nil {
		return nil, err
	}
	if r.FunFacts.LowestRate, r.FunFacts.HighestRate, err = summary.ExtremaBy(d, dataset.Rating); err != nil {
		return nil, err
	}

	if d.HasColumn(dataset.ReviewCount) {
		reviewed := summary.CoerceNumeric(d, dataset.ReviewCount)
		r.ReviewRowsDropped = d.Len() - reviewed.Len()
		log.Debug().Int("kept", reviewed.Len()).Int("dropped", r.ReviewRowsDropped).Msg("coerced review counts")
		if reviewed.Len() > 0 {
			if r.TopReviewed, err = summary.TopNByValue(reviewed, dataset.ReviewCount, opt.TopN); err != nil {
				return nil, err
			}
		} else {
			r.Notes = append(r.Notes, "no row carries a numeric review count")
		}
	} else {
		r.Notes = append(r.Notes, "review count column absent; top reviewed skipped")
	}

	if d.HasColumn(dataset.Votes) {
		voted := summary.CoerceNumeric(d, dataset.Votes)
		if voted.Len() > 0 {
			if r.MostVoted, err = summary.TopNByValue(voted, dataset.Votes, opt.TopN); err != nil {
				return nil, err
			}
		}
		p, err := summary.Correlation(d, dataset.Votes, dataset.Rating)
		if err != nil {
			return nil, err
		}
		r.VotesVsRating = &Correlation{R: finite(p.R), N: p.N}
	} else {
		r.Notes = append(r.Notes, "votes column absent; votes vs rating skipped")
	}

	if r.DurationHistogram, err = summary.Histogram(d, dataset.Duration, opt.HistogramBins); err != nil {
		return nil, err
	}
	log.Debug().Int("rows", d.Len()).Int("years", len(r.RatingsByYear)).Int("genres", len(r.Genres)).Msg("report built")
	return r, nil
}

func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}
