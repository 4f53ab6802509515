package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/filmstats-cli/internal/dataset"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Render encodes the report in the named format: markdown, json or yaml.
func (r *Report) Render(format string) ([]byte, error) {
	switch format {
	case "", "markdown":
		return []byte(r.Markdown()), nil
	case "json":
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(b, '\n'), nil
	case "yaml":
		b, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// Markdown renders a compact report mirroring the dashboard sections.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("File: %s\n", r.Source))
	b.WriteString(fmt.Sprintf("Session: %s\n", r.Session))
	b.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(r.Columns, ", ")))
	if len(r.Ignored) > 0 {
		b.WriteString(fmt.Sprintf("Ignored columns: %s\n", strings.Join(r.Ignored, ", ")))
	}

	b.WriteString("\n[OVERVIEW]\n")
	b.WriteString(fmt.Sprintf("- Total Movies: %d\n", r.Overview.Movies))
	b.WriteString(fmt.Sprintf("- Average Rating: %s\n", fmtOpt(r.Overview.MeanRating, 2)))
	if r.Overview.MeanRevenue != nil {
		b.WriteString(fmt.Sprintf("- Average Revenue (millions): $%.2f\n", *r.Overview.MeanRevenue))
	}

	if len(r.Head) > 0 {
		b.WriteString("\n[HEAD]\n")
		WriteTable(&b, r.Head)
	}

	if len(r.RatingsByYear) > 0 {
		b.WriteString("\n[RATINGS OVER TIME]\n")
		for _, g := range r.RatingsByYear {
			b.WriteString(fmt.Sprintf("- %s: %.2f (n=%d)\n", g.Key, g.Mean, g.Count))
		}
	}

	if len(r.Genres) > 0 {
		b.WriteString("\n[GENRES]\n")
		for _, g := range r.Genres {
			b.WriteString(fmt.Sprintf("- %s: %d\n", safeVal(g.Value), g.Count))
		}
	}

	b.WriteString("\n[FUN FACTS]\n")
	f := r.FunFacts
	b.WriteString(fmt.Sprintf("- Longest Movie: %s (%d minutes)\n", safeVal(f.Longest.Title), f.Longest.Duration))
	b.WriteString(fmt.Sprintf("- Shortest Movie: %s (%d minutes)\n", safeVal(f.Shortest.Title), f.Shortest.Duration))
	b.WriteString(fmt.Sprintf("- Highest Rated: %s (%.1f)\n", safeVal(f.HighestRate.Title), f.HighestRate.Rating))
	b.WriteString(fmt.Sprintf("- Lowest Rated: %s (%.1f)\n", safeVal(f.LowestRate.Title), f.LowestRate.Rating))

	if len(r.TopReviewed) > 0 {
		b.WriteString("\n[TOP REVIEWED]\n")
		for i, m := range r.TopReviewed {
			b.WriteString(fmt.Sprintf("%d. %s (%d): %s reviews\n", i+1, safeVal(m.Title), m.Year, m.Text(dataset.ReviewCount)))
		}
		if r.ReviewRowsDropped > 0 {
			b.WriteString(fmt.Sprintf("(%d rows without a numeric review count were left out)\n", r.ReviewRowsDropped))
		}
	}

	if len(r.MostVoted) > 0 {
		b.WriteString("\n[MOST VOTED]\n")
		for i, m := range r.MostVoted {
			b.WriteString(fmt.Sprintf("%d. %s (%d): %d votes, rated %.1f\n", i+1, safeVal(m.Title), m.Year, m.Votes, m.Rating))
		}
	}

	if len(r.DurationHistogram) > 0 {
		b.WriteString("\n[DURATION HISTOGRAM]\n")
		peak := 0
		for _, h := range r.DurationHistogram {
			if h.Count > peak {
				peak = h.Count
			}
		}
		for _, h := range r.DurationHistogram {
			bar := ""
			if peak > 0 {
				bar = strings.Repeat("#", h.Count*20/peak)
			}
			b.WriteString(fmt.Sprintf("- %6.1f-%6.1f min: %3d %s\n", h.Lower, h.Upper, h.Count, bar))
		}
	}

	if r.VotesVsRating != nil {
		b.WriteString("\n[VOTES VS RATING]\n")
		b.WriteString(fmt.Sprintf("- Pearson r: %s over %d movies\n", fmtOpt(r.VotesVsRating.R, 3), r.VotesVsRating.N))
	}

	if len(r.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range r.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// WriteTable writes records as a Markdown table.
func WriteTable(w io.Writer, recs []dataset.MovieRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Title", "Year", "Genre", "Rating", "Duration", "Votes", "Review Count"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, m := range recs {
		title := m.Title
		if r := []rune(title); len(r) > 60 {
			title = string(r[:57]) + "..."
		}
		table.Append([]string{
			safeVal(title),
			strconv.Itoa(m.Year),
			safeVal(m.Genre),
			strconv.FormatFloat(m.Rating, 'f', 1, 64),
			strconv.Itoa(m.Duration),
			safeVal(m.Text(dataset.Votes)),
			safeVal(m.Text(dataset.ReviewCount)),
		})
	}
	table.Render()
}

func fmtOpt(x *float64, prec int) string {
	if x == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*x, 'f', prec, 64)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
