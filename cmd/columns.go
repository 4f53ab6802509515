package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/filmstats-cli/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	colEntry     string
	colSheet     string
	colDelimiter string
)

var columnsCmd = &cobra.Command{
	Use:   "columns <archive|url>",
	Short: "Show recognised and ignored columns and check the required ones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := loadOptions(colDelimiter)
		if err != nil {
			return err
		}
		opt.Entry = colEntry
		opt.Sheet = colSheet
		// load without the required check so the listing works on partial files
		opt.Required = nil
		d, err := dataset.Open(cmd.Context(), args[0], opt)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "File: %s (%d rows)\n", d.Name(), d.Len())
		fmt.Fprintln(out, "Recognised columns:")
		for _, f := range d.Columns() {
			kind := "text"
			if f.Numeric() {
				kind = "numeric"
			}
			fmt.Fprintf(out, "  - %s (%s)\n", f.Label(), kind)
		}
		if extra := d.ExtraColumns(); len(extra) > 0 {
			fmt.Fprintf(out, "Ignored columns: %s\n", strings.Join(extra, ", "))
		}
		if err := dataset.ValidateColumns(d, dataset.RequiredFields); err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ All required columns present")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.Flags().StringVar(&colEntry, "entry", "", "ZIP: file inside the archive to load")
	columnsCmd.Flags().StringVar(&colSheet, "sheet", "", "XLSX: sheet name to load")
	columnsCmd.Flags().StringVar(&colDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe'")
}
