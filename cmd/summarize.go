package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/filmstats-cli/internal/config"
	"github.com/KaramelBytes/filmstats-cli/internal/dataset"
	"github.com/KaramelBytes/filmstats-cli/internal/report"
	"github.com/KaramelBytes/filmstats-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	sumFormat     string
	sumOutputPath string
	sumHeadRows   int
	sumTopN       int
	sumBins       int
	sumEntry      string
	sumSheet      string
	sumDelimiter  string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <archive|url>",
	Short: "Load a filmography dataset and print its summary report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := loadOptions(sumDelimiter)
		if err != nil {
			return err
		}
		opt.Entry = sumEntry
		opt.Sheet = sumSheet
		d, err := dataset.Open(cmd.Context(), args[0], opt)
		if err != nil {
			return err
		}

		ropt := report.DefaultOptions()
		ropt.Logger = log
		format := sumFormat
		if cfg != nil {
			ropt.HeadRows, ropt.TopN, ropt.HistogramBins = cfg.HeadRows, cfg.TopN, cfg.HistogramBins
			if format == "" {
				format = cfg.OutputFormat
			}
		}
		f := cmd.Flags()
		if f.Changed("head-rows") {
			ropt.HeadRows = sumHeadRows
		}
		if f.Changed("top") {
			ropt.TopN = sumTopN
		}
		if f.Changed("bins") {
			ropt.HistogramBins = sumBins
		}
		// an explicit --format wins; otherwise the output extension decides
		if !f.Changed("format") && sumOutputPath != "" {
			if ext := utils.FormatFromPath(sumOutputPath); ext != "" {
				format = ext
			}
		}
		if format, err = cfgpkg.ParseFormat(format); err != nil {
			return err
		}

		rep, err := report.Build(d, ropt)
		if err != nil {
			return err
		}
		out, err := rep.Render(format)
		if err != nil {
			return err
		}

		if sumOutputPath != "" {
			if err := utils.SafeWriteFile(sumOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s summary of %d movies to %s\n", format, d.Len(), sumOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringVar(&sumFormat, "format", "", "output format: markdown|json|yaml (default from config)")
	summarizeCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "optional path to write the report")
	summarizeCmd.Flags().IntVar(&sumHeadRows, "head-rows", 5, "number of preview rows (0 hides the preview)")
	summarizeCmd.Flags().IntVar(&sumTopN, "top", 5, "length of the top-reviewed and most-voted lists (0 = all)")
	summarizeCmd.Flags().IntVar(&sumBins, "bins", 10, "duration histogram bins")
	summarizeCmd.Flags().StringVar(&sumEntry, "entry", "", "ZIP: file inside the archive to load (default: first csv/tsv)")
	summarizeCmd.Flags().StringVar(&sumSheet, "sheet", "", "XLSX: sheet name to load (default: first sheet)")
	summarizeCmd.Flags().StringVar(&sumDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe'")
}
