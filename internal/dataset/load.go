package dataset

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Options controls how a dataset is loaded.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv entries and ',' otherwise.
	Delimiter rune
	// Entry selects a file inside a zip archive; empty picks the first csv/tsv.
	Entry string
	// Sheet selects an xlsx sheet by name; empty picks the first sheet.
	Sheet string
	// Required lists the columns that must be present.
	Required []Field
	// HTTPTimeout bounds URL downloads.
	HTTPTimeout time.Duration
	// MaxDownloadBytes caps URL downloads; 0 means unlimited.
	MaxDownloadBytes int64
	Logger           zerolog.Logger
}

// DefaultOptions returns the options used by the CLI unless overridden.
func DefaultOptions() Options {
	return Options{
		Required:         RequiredFields,
		HTTPTimeout:      60 * time.Second,
		MaxDownloadBytes: 100 << 20,
		Logger:           zerolog.Nop(),
	}
}

// Open loads a dataset from a local path or an http(s) URL.
func Open(ctx context.Context, source string, opt Options) (*Dataset, error) {
	if isURL(source) {
		name, data, err := download(ctx, source, opt)
		if err != nil {
			return nil, err
		}
		return Read(name, data, opt)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Read(filepath.Base(source), data, opt)
}

// Read parses an in-memory file. The format is chosen by the extension of
// name: .zip, .xlsx, otherwise delimited text (.tsv implies tabs).
func Read(name string, data []byte, opt Options) (*Dataset, error) {
	log := opt.Logger.With().Str("source", name).Logger()
	var (
		entry string
		table [][]string
		lines []int
		err   error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zip":
		entry, table, lines, err = readZip(data, opt)
	case ".xlsx":
		entry, table, lines, err = readXLSX(name, data, opt.Sheet)
	default:
		entry = name
		table, lines, err = readDelimited(bytes.NewReader(data), pickDelimiter(opt.Delimiter, name))
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("entry", entry).Int("lines", len(table)).Msg("read table")
	d, err := build(entry, table, lines, opt.Required)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry, err)
	}
	log.Debug().Str("session", d.ID()).Int("rows", d.Len()).Strs("extra_columns", d.extra).Msg("dataset loaded")
	return d, nil
}

// build turns a header row plus data rows into a Dataset. lines holds the
// 1-based source line each row of table starts on.
func build(name string, table [][]string, lines []int, required []Field) (*Dataset, error) {
	if len(table) == 0 {
		d := New(name, nil, nil)
		return d, ValidateColumns(d, required)
	}
	header := table[0]
	index := map[Field]int{}
	var columns []Field
	var extra []string
	for i, h := range header {
		f, ok := ParseField(h)
		if !ok {
			extra = append(extra, strings.TrimSpace(h))
			continue
		}
		if _, dup := index[f]; dup {
			extra = append(extra, strings.TrimSpace(h))
			continue
		}
		index[f] = i
		columns = append(columns, f)
	}
	d := New(name, columns, nil)
	d.extra = extra
	if err := ValidateColumns(d, required); err != nil {
		return nil, err
	}

	records := make([]MovieRecord, 0, len(table)-1)
	for i, row := range table[1:] {
		if blank(row) {
			continue
		}
		cells := make(map[Field]string, len(index))
		for f, idx := range index {
			if idx < len(row) {
				cells[f] = row[idx]
			} else {
				cells[f] = ""
			}
		}
		line := lines[i+1]
		rec, err := NewRecord(line, cells)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	d.records = records
	return d, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func pickDelimiter(d rune, name string) rune {
	if d != 0 {
		return d
	}
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}

// readDelimited returns the rows and the source line each row starts on.
// Blank lines and quoted cells spanning several lines make the two differ.
func readDelimited(r io.Reader, delim rune) ([][]string, []int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.Comma = delim
	var (
		out   [][]string
		lines []int
	)
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read row %d: %w", len(out)+1, err)
		}
		line, _ := cr.FieldPos(0)
		out = append(out, rec)
		lines = append(lines, line)
	}
	return out, lines, nil
}

func readZip(data []byte, opt Options) (string, [][]string, []int, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, nil, fmt.Errorf("open zip: %w", err)
	}
	var target *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		if opt.Entry != "" {
			if f.Name == opt.Entry || path.Base(f.Name) == opt.Entry {
				target = f
				break
			}
			continue
		}
		lower := strings.ToLower(f.Name)
		if strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".tsv") {
			target = f
			break
		}
	}
	if target == nil {
		if opt.Entry != "" {
			return "", nil, nil, fmt.Errorf("zip entry %q not found", opt.Entry)
		}
		return "", nil, nil, ErrNoTabularEntry
	}
	rc, err := target.Open()
	if err != nil {
		return "", nil, nil, fmt.Errorf("open zip entry %s: %w", target.Name, err)
	}
	defer rc.Close()
	name := path.Base(target.Name)
	table, lines, err := readDelimited(rc, pickDelimiter(opt.Delimiter, name))
	if err != nil {
		return "", nil, nil, fmt.Errorf("%s: %w", target.Name, err)
	}
	return name, table, lines, nil
}

// readXLSX reads one sheet; each row's line is its sheet row number.
func readXLSX(name string, data []byte, sheet string) (string, [][]string, []int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, nil, fmt.Errorf("workbook '%s' has no sheets", name)
	}
	target := sheets[0]
	if sheet != "" {
		target = ""
		for _, s := range sheets {
			if strings.EqualFold(s, sheet) {
				target = s
				break
			}
		}
		if target == "" {
			return "", nil, nil, fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
				sheet, name, strings.Join(sheets, ", "))
		}
	}
	rows, err := f.GetRows(target)
	if err != nil {
		return "", nil, nil, fmt.Errorf("read sheet %s: %w", target, err)
	}
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 1
	}
	return name + "#" + target, rows, lines, nil
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// download fetches a remote dataset and returns a file name usable for
// format detection.
func download(ctx context.Context, rawURL string, opt Options) (string, []byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("parse url: %w", err)
	}
	timeout := opt.HTTPTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", nil, fmt.Errorf("build request: %w", err)
	}
	opt.Logger.Debug().Str("url", u.Redacted()).Dur("timeout", timeout).Msg("downloading dataset")
	resp, err := client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", nil, fmt.Errorf("fetch: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	var body io.Reader = resp.Body
	if opt.MaxDownloadBytes > 0 {
		body = io.LimitReader(resp.Body, opt.MaxDownloadBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if opt.MaxDownloadBytes > 0 && int64(len(data)) > opt.MaxDownloadBytes {
		return "", nil, fmt.Errorf("fetch: response exceeds %d bytes", opt.MaxDownloadBytes)
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "download"
	}
	if filepath.Ext(name) == "" {
		if strings.Contains(resp.Header.Get("Content-Type"), "zip") {
			name += ".zip"
		} else {
			name += ".csv"
		}
	}
	return name, data, nil
}
