package cmd

import (
	"fmt"
	"os"
	"time"

	cfgpkg "github.com/KaramelBytes/filmstats-cli/internal/config"
	"github.com/KaramelBytes/filmstats-cli/internal/dataset"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile            string
	debug              bool
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg *cfgpkg.Global
	log = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "filmstats",
	Short: "Summarize a Nicolas Cage filmography dataset",
	Long: `filmstats loads a movie dataset (CSV/TSV, a zip archive holding one, or an
XLSX workbook, from disk or a URL) and prints overview statistics, ratings over
time, genre counts, fun facts and top-reviewed titles.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.filmstats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds for URL datasets (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{HeadRows: 5, TopN: 5, HistogramBins: 10, OutputFormat: "markdown", HTTPTimeoutSec: 60, MaxDownloadMB: 100}
	}
	cfg = c

	if rootCmd.PersistentFlags().Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	log = cfg.CreateLogger(os.Stderr, debug)
	log.Debug().Str("config", cfgFile).Int("http_timeout_sec", cfg.HTTPTimeoutSec).Msg("configuration loaded")
}

// loadOptions maps the effective configuration onto dataset loader options.
// A non-empty delimiter flag wins over the configured one.
func loadOptions(delimiter string) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	opt.Logger = log
	if cfg != nil {
		if cfg.HTTPTimeoutSec > 0 {
			opt.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
		}
		if cfg.MaxDownloadMB > 0 {
			opt.MaxDownloadBytes = int64(cfg.MaxDownloadMB) << 20
		}
		if delimiter == "" {
			delimiter = cfg.Delimiter
		}
	}
	d, err := cfgpkg.ParseDelimiter(delimiter)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d
	return opt, nil
}
