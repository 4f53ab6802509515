package cmd

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/filmstats-cli/internal/dataset"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const cageCSV = "Title,Rating,Year,Genre,Duration,Votes,Review Count\n" +
	"Con Air,6.9,1997,Action,115,300000,450\n" +
	"Face/Off,7.3,1997,Action,138,412000,610\n" +
	"Mandy,6.5,2018,Horror,121,71000,880\n"

// resetFlags clears values and Changed state that cobra keeps between runs.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func writeArchive(t *testing.T, dir, body string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("IMDb/imdb.csv")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	p := filepath.Join(dir, "archive.zip")
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return p
}

func TestCLI_SummarizeArchiveToStdout(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	archive := writeArchive(t, home, cageCSV)

	out := runCmd(t, "summarize", archive, "--top", "1")
	for _, want := range []string{"[DATASET SUMMARY]", "File: imdb.csv", "- Total Movies: 3", "1. Mandy (2018): 880 reviews"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "2. Face/Off") {
		t.Fatalf("--top 1 not applied:\n%s", out)
	}
}

func TestCLI_SummarizeWritesJSONByExtension(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	archive := writeArchive(t, home, cageCSV)
	dest := filepath.Join(home, "out", "cage.json")

	out := runCmd(t, "summarize", archive, "-o", dest)
	if !strings.Contains(out, "✓ Wrote json summary of 3 movies") {
		t.Fatalf("unexpected confirmation: %q", out)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, b)
	}
	if doc["source"] != "imdb.csv" {
		t.Fatalf("source = %v", doc["source"])
	}
}

func TestCLI_SummarizeMissingColumns(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	p := filepath.Join(home, "partial.csv")
	if err := os.WriteFile(p, []byte("Title,Genre\nMandy,Horror\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	_, err := execute(t, "summarize", p)
	var mce *dataset.MissingColumnsError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	if len(mce.Missing) != 3 {
		t.Fatalf("missing = %v, want Rating, Year, Duration", mce.Missing)
	}
}

func TestCLI_ColumnsListsAndValidates(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	p := filepath.Join(home, "partial.csv")
	if err := os.WriteFile(p, []byte("Title,Genre,Director\nMandy,Horror,Panos Cosmatos\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	out, err := execute(t, "columns", p)
	if err == nil {
		t.Fatalf("expected missing column error")
	}
	if !strings.Contains(out, "Ignored columns: Director") || !strings.Contains(out, "- Genre (text)") {
		t.Fatalf("unexpected listing:\n%s", out)
	}

	archive := writeArchive(t, home, cageCSV)
	out = runCmd(t, "columns", archive)
	if !strings.Contains(out, "✓ All required columns present") || !strings.Contains(out, "- Votes (numeric)") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
}

func TestCLI_Search(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	archive := writeArchive(t, home, cageCSV)

	out := runCmd(t, "search", archive, "face")
	if !strings.Contains(out, "Face/Off") || strings.Contains(out, "Mandy") {
		t.Fatalf("unexpected search output:\n%s", out)
	}
	if !strings.Contains(out, "1 of 3 movies match") {
		t.Fatalf("missing match count:\n%s", out)
	}
	out = runCmd(t, "search", archive, "zzz")
	if !strings.Contains(out, "No titles match") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	runCmd(t, "config", "set", "top_n", "3")
	runCmd(t, "config", "set", "output_format", "yml")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "top_n: 3") || !strings.Contains(out, "output_format: yaml") {
		t.Fatalf("config not persisted:\n%s", out)
	}
	if _, err := execute(t, "config", "set", "top_n", "-1"); err == nil {
		t.Fatalf("expected error for negative top_n")
	}
	if _, err := execute(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}

	// configured format applies when --format is not given
	archive := writeArchive(t, home, cageCSV)
	out = runCmd(t, "summarize", archive)
	if !strings.HasPrefix(out, "source: imdb.csv") {
		t.Fatalf("expected yaml output, got:\n%s", out)
	}
}
