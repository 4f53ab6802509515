package cmd

import (
	"fmt"

	"github.com/KaramelBytes/filmstats-cli/internal/dataset"
	"github.com/KaramelBytes/filmstats-cli/internal/report"
	"github.com/KaramelBytes/filmstats-cli/internal/summary"
	"github.com/spf13/cobra"
)

var (
	searchEntry     string
	searchSheet     string
	searchDelimiter string
	searchLimit     int
)

var searchCmd = &cobra.Command{
	Use:   "search <archive|url> <query>",
	Short: "List movies whose title contains the query (case-insensitive)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := loadOptions(searchDelimiter)
		if err != nil {
			return err
		}
		opt.Entry = searchEntry
		opt.Sheet = searchSheet
		d, err := dataset.Open(cmd.Context(), args[0], opt)
		if err != nil {
			return err
		}
		hits := summary.Search(d, args[1])
		log.Debug().Str("query", args[1]).Int("hits", len(hits)).Msg("search")
		out := cmd.OutOrStdout()
		if len(hits) == 0 {
			fmt.Fprintf(out, "No titles match %q\n", args[1])
			return nil
		}
		total := len(hits)
		if searchLimit > 0 && total > searchLimit {
			hits = hits[:searchLimit]
		}
		report.WriteTable(out, hits)
		fmt.Fprintf(out, "%d of %d movies match %q\n", total, d.Len(), args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchEntry, "entry", "", "ZIP: file inside the archive to load")
	searchCmd.Flags().StringVar(&searchSheet, "sheet", "", "XLSX: sheet name to load")
	searchCmd.Flags().StringVar(&searchDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe'")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum rows to print (0 = all)")
}
