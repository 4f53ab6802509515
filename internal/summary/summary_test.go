package summary

import (
	"math"
	"testing"

	"github.com/KaramelBytes/filmstats-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allColumns = []dataset.Field{
	dataset.Title, dataset.Rating, dataset.Year, dataset.Genre, dataset.Duration,
	dataset.Votes, dataset.ReviewCount, dataset.Revenue,
}

type row struct {
	title, rating, year, genre, duration, votes, reviews, revenue string
}

func build(t *testing.T, rows ...row) *dataset.Dataset {
	t.Helper()
	recs := make([]dataset.MovieRecord, 0, len(rows))
	for i, r := range rows {
		rec, err := dataset.NewRecord(i+2, map[dataset.Field]string{
			dataset.Title:       r.title,
			dataset.Rating:      r.rating,
			dataset.Year:        r.year,
			dataset.Genre:       r.genre,
			dataset.Duration:    r.duration,
			dataset.Votes:       r.votes,
			dataset.ReviewCount: r.reviews,
			dataset.Revenue:     r.revenue,
		})
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	return dataset.New("test.csv", allColumns, recs)
}

func filmography(t *testing.T) *dataset.Dataset {
	return build(t,
		row{"Con Air", "6.9", "1997", "Action", "115", "300000", "450", "224"},
		row{"Face/Off", "7.3", "1997", "Action", "138", "412000", "610", "245.7"},
		row{"Adaptation.", "7.6", "2002", "Comedy", "115", "193000", "abc", ""},
		row{"Mandy", "6.5", "2018", "Horror", "121", "71000", "880", "1.2"},
		row{"Pig", "6.9", "2021", "Drama", "92", "102000", "610", ""},
		row{"The Wicker Man", "3.7", "2006", "Horror", "102", "66000", "", "38.8"},
	)
}

func TestBasicStats(t *testing.T) {
	s := BasicStats(filmography(t))
	assert.Equal(t, 6, s.Count)
	assert.InDelta(t, (6.9+7.3+7.6+6.5+6.9+3.7)/6, s.MeanRating, 1e-9)
	assert.Equal(t, 4, s.RevenueRows)
	assert.InDelta(t, (224+245.7+1.2+38.8)/4, s.MeanRevenue, 1e-9)

	empty := BasicStats(build(t))
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.MeanRating))
}

func TestExtremaBy(t *testing.T) {
	d := filmography(t)
	shortest, longest, err := ExtremaBy(d, dataset.Duration)
	require.NoError(t, err)
	assert.Equal(t, "Pig", shortest.Title)
	assert.Equal(t, "Face/Off", longest.Title)

	lo, hi, err := ExtremaBy(d, dataset.Rating)
	require.NoError(t, err)
	assert.Equal(t, "The Wicker Man", lo.Title)
	assert.Equal(t, "Adaptation.", hi.Title)

	single := build(t, row{"Pig", "6.9", "2021", "Drama", "92", "", "", ""})
	lo, hi, err = ExtremaBy(single, dataset.Duration)
	require.NoError(t, err)
	assert.Equal(t, lo, hi)
	assert.Equal(t, "Pig", lo.Title)

	// idxmax semantics: Con Air and Pig tie at 6.9 and the earlier row wins
	tie := build(t,
		row{"Con Air", "6.9", "1997", "Action", "115", "", "", ""},
		row{"Pig", "6.9", "2021", "Drama", "92", "", "", ""},
	)
	lo, hi, err = ExtremaBy(tie, dataset.Rating)
	require.NoError(t, err)
	assert.Equal(t, "Con Air", lo.Title)
	assert.Equal(t, "Con Air", hi.Title)

	_, _, err = ExtremaBy(build(t), dataset.Duration)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, _, err = ExtremaBy(d, dataset.Genre)
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestGroupedMeanExample(t *testing.T) {
	d := build(t,
		row{"a", "5", "2000", "Drama", "90", "", "", ""},
		row{"b", "7", "2001", "Drama", "90", "", "", ""},
		row{"c", "9", "2001", "Drama", "90", "", "", ""},
	)
	got, err := GroupedMean(d, dataset.Year, dataset.Rating)
	require.NoError(t, err)
	assert.Equal(t, []GroupMean{
		{Key: "2000", Mean: 5.0, Count: 1},
		{Key: "2001", Mean: 8.0, Count: 2},
	}, got)
}

func TestGroupedMeanPartitionsRows(t *testing.T) {
	d := filmography(t)
	for _, key := range []dataset.Field{dataset.Year, dataset.Genre} {
		groups, err := GroupedMean(d, key, dataset.Rating)
		require.NoError(t, err)
		total := 0
		for i, g := range groups {
			total += g.Count
			if i > 0 && key == dataset.Genre {
				assert.Less(t, groups[i-1].Key, g.Key)
			}
		}
		assert.Equal(t, d.Len(), total, "groups by %s should cover every row once", key)
	}

	byYear, err := GroupedMean(d, dataset.Year, dataset.Rating)
	require.NoError(t, err)
	keys := make([]string, len(byYear))
	for i, g := range byYear {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"1997", "2002", "2006", "2018", "2021"}, keys)
	assert.InDelta(t, 7.1, byYear[0].Mean, 1e-9)
}

func TestGroupedMeanOrdersYearsNumerically(t *testing.T) {
	d := build(t,
		row{"a", "5", "10000", "Drama", "90", "", "", ""},
		row{"b", "7", "999", "Drama", "90", "", "", ""},
	)
	got, err := GroupedMean(d, dataset.Year, dataset.Rating)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "999", got[0].Key)

	_, err = GroupedMean(d, dataset.Year, dataset.Title)
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestTopNByFrequency(t *testing.T) {
	d := filmography(t)
	got, err := TopNByFrequency(d, dataset.Genre, 3)
	require.NoError(t, err)
	// Action and Horror tie at 2; Action was seen first. Comedy precedes Drama.
	assert.Equal(t, []ValueCount{
		{Value: "Action", Count: 2},
		{Value: "Horror", Count: 2},
		{Value: "Comedy", Count: 1},
	}, got)

	all, err := TopNByFrequency(d, dataset.Genre, 100)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	unlimited, err := TopNByFrequency(d, dataset.Genre, 0)
	require.NoError(t, err)
	assert.Equal(t, all, unlimited)

	_, err = TopNByFrequency(build(t), dataset.Genre, 3)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestTopNByValue(t *testing.T) {
	d := CoerceNumeric(filmography(t), dataset.ReviewCount)
	got, err := TopNByValue(d, dataset.ReviewCount, 3)
	require.NoError(t, err)
	titles := []string{got[0].Title, got[1].Title, got[2].Title}
	// Face/Off and Pig tie at 610 and keep input order
	assert.Equal(t, []string{"Mandy", "Face/Off", "Pig"}, titles)

	_, err = TopNByValue(build(t), dataset.Votes, 3)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = TopNByValue(d, dataset.Title, 3)
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestCoerceNumericDropsUnparsableRows(t *testing.T) {
	d := build(t,
		row{"a", "5", "2000", "Drama", "90", "", "12", ""},
		row{"b", "6", "2001", "Drama", "90", "", "abc", ""},
		row{"c", "7", "2002", "Drama", "90", "", "7", ""},
	)
	out := CoerceNumeric(d, dataset.ReviewCount)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, 3, d.Len(), "source dataset must stay intact")
	assert.Equal(t, "a", out.Row(0).Title)
	assert.Equal(t, "c", out.Row(1).Title)
	assert.Equal(t, d.ID(), out.ID())

	titles := CoerceNumeric(d, dataset.Title)
	assert.Equal(t, 0, titles.Len())
}

func TestHeadAndSearch(t *testing.T) {
	d := filmography(t)
	assert.Len(t, Head(d, 2), 2)
	assert.Len(t, Head(d, 50), 6)
	assert.Empty(t, Head(d, 0))

	hits := Search(d, "face")
	require.Len(t, hits, 1)
	assert.Equal(t, "Face/Off", hits[0].Title)
	assert.Len(t, Search(d, "MAN"), 2)
	assert.Empty(t, Search(d, "  "))
	assert.Empty(t, Search(d, "Ghost Rider"))
}

func TestHistogram(t *testing.T) {
	d := filmography(t)
	bins, err := Histogram(d, dataset.Duration, 2)
	require.NoError(t, err)
	require.Len(t, bins, 2)
	assert.Equal(t, 92.0, bins[0].Lower)
	assert.Equal(t, 115.0, bins[0].Upper)
	assert.Equal(t, 138.0, bins[1].Upper)
	assert.Equal(t, 2, bins[0].Count)
	assert.Equal(t, 4, bins[1].Count)

	total := 0
	def, err := Histogram(d, dataset.Duration, 0)
	require.NoError(t, err)
	assert.Len(t, def, DefaultBins)
	for _, b := range def {
		total += b.Count
	}
	assert.Equal(t, d.Len(), total)

	flat := build(t, row{"a", "5", "2000", "Drama", "90", "", "", ""})
	one, err := Histogram(flat, dataset.Duration, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, one[0].Count)

	_, err = Histogram(d, dataset.Genre, 3)
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestCorrelation(t *testing.T) {
	d := build(t,
		row{"a", "5", "2000", "Drama", "90", "100", "", ""},
		row{"b", "6", "2000", "Drama", "90", "200", "", ""},
		row{"c", "7", "2000", "Drama", "90", "300", "", ""},
		row{"d", "8", "2000", "Drama", "90", "n/a", "", ""},
	)
	p, err := Correlation(d, dataset.Votes, dataset.Rating)
	require.NoError(t, err)
	assert.Equal(t, 3, p.N)
	assert.InDelta(t, 1.0, p.R, 1e-9)

	few, err := Correlation(build(t, row{"a", "5", "2000", "Drama", "90", "100", "", ""}), dataset.Votes, dataset.Rating)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(few.R))

	_, err = Correlation(d, dataset.Genre, dataset.Rating)
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestValidateColumnsReexport(t *testing.T) {
	d := dataset.New("x", []dataset.Field{dataset.Title, dataset.Genre}, nil)
	err := ValidateColumns(d, dataset.RequiredFields)
	var mce *MissingColumnsError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []dataset.Field{dataset.Rating, dataset.Year, dataset.Duration}, mce.Missing)
}
