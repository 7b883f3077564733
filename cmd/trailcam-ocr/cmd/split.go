package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/trailcam-ocr/internal/report"
)

func newSplitCommand(a *app) *cobra.Command {
	var input, output, column string
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Add Date and Time columns to a timestamp CSV",
		Long: `Read a CSV with a timestamp column (bare, '-prefixed or ="..." cells) and
write a copy with Date (YYYY-MM-DD) and Time (HH:MM:SS) columns after it.
Cells without a timestamp get "Not found".

With --col another column is split instead, such as the DateTimeOriginal
column of a camera EXIF export ("YYYY:MM:DD HH:MM:SS"); Date and Time are then
appended after the existing columns.`,
		Example: `  trailcam-ocr split --input timestamps.csv --output timestamps_split.csv
  trailcam-ocr split --input exif.csv --output exif_split.csv --col DateTimeOriginal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := report.SplitCSVFile(input, output, column)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"rows": stats.Rows, "parsed": stats.Parsed}).Debug("split done")
			printf(cmd.OutOrStdout(), "Parsed %d/%d rows into Date/Time.\n", stats.Parsed, stats.Rows)
			printf(cmd.OutOrStdout(), "Saved: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input CSV")
	cmd.Flags().StringVar(&output, "output", "", "output CSV")
	cmd.Flags().StringVar(&column, "col", report.ColumnTimestamp, "column to split")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
