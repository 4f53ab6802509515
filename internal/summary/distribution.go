package summary

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/filmstats-cli/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the histogram bin count used when none is given.
const DefaultBins = 10

// Bin is one histogram bucket covering [Lower, Upper); the last bucket
// also includes Upper.
type Bin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

// Histogram buckets field into equal-width bins spanning its observed range.
func Histogram(d *dataset.Dataset, field dataset.Field, bins int) ([]Bin, error) {
	if !field.Numeric() {
		return nil, fmt.Errorf("histogram of %s: %w", field, ErrNotNumeric)
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	var xs []float64
	for _, r := range d.Rows() {
		if v, ok := r.Number(field); ok {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("histogram of %s: %w", field, ErrEmptyDataset)
	}
	sort.Float64s(xs)
	lo, hi := xs[0], xs[len(xs)-1]
	if lo == hi {
		hi = lo + 1
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	dividers := append([]float64(nil), edges...)
	// stat.Histogram wants the maximum strictly below the last divider.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, xs, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lower: edges[i], Upper: edges[i+1], Count: int(counts[i])}
	}
	return out, nil
}

// Pearson is a correlation coefficient and the number of paired rows it
// was computed from.
type Pearson struct {
	R float64 `json:"r" yaml:"r"`
	N int     `json:"n" yaml:"n"`
}

// Correlation computes the Pearson correlation of x and y over rows that
// carry both. R is NaN with fewer than two pairs or a constant series.
func Correlation(d *dataset.Dataset, x, y dataset.Field) (Pearson, error) {
	if !x.Numeric() || !y.Numeric() {
		return Pearson{}, fmt.Errorf("correlation of %s and %s: %w", x, y, ErrNotNumeric)
	}
	var xs, ys []float64
	for _, r := range d.Rows() {
		a, okA := r.Number(x)
		b, okB := r.Number(y)
		if okA && okB {
			xs = append(xs, a)
			ys = append(ys, b)
		}
	}
	p := Pearson{R: math.NaN(), N: len(xs)}
	if len(xs) < 2 {
		return p, nil
	}
	p.R = stat.Correlation(xs, ys, nil)
	return p, nil
}
