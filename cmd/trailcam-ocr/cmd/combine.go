package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/trailcam-ocr/internal/report"
)

func newCombineCommand(a *app) *cobra.Command {
	var camera, recognized, output string
	opts := report.DefaultCombineOptions()
	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Fill missing Date/Time of a camera CSV from recognized timestamps",
		Long: `Copy the camera CSV (with filename, Date and Time columns), filling Date and
Time cells that are empty or "Not found" from a split timestamp CSV. Rows are
matched by the id the --id-regex capture group extracts from both file names.
Existing values are never overwritten.`,
		Example: `  trailcam-ocr combine --camera-csv exif_split.csv --recognized-csv timestamps_split.csv --output filled.csv`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := report.CombineFiles(camera, recognized, output, opts)
			if err != nil {
				return err
			}
			if stats.MissingIDs > 0 {
				a.log.WithFields(logrus.Fields{"rows": stats.MissingIDs, "pattern": opts.IDPattern}).Warn("rows without an id")
			}
			w := cmd.OutOrStdout()
			printf(w, "Filled Date: %d row(s), Time: %d row(s)\n", stats.FilledDates, stats.FilledTimes)
			printf(w, "Saved: %s\n", output)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&camera, "camera-csv", "", "camera CSV with filename, Date and Time columns")
	f.StringVar(&recognized, "recognized-csv", "", "split timestamp CSV")
	f.StringVar(&output, "output", "", "output CSV")
	f.StringVar(&opts.IDPattern, "id-regex", opts.IDPattern, "regular expression with one capture group extracting the shared id")
	f.StringVar(&opts.FileColumn, "file-column", opts.FileColumn, "file column of the camera CSV")
	_ = cmd.MarkFlagRequired("camera-csv")
	_ = cmd.MarkFlagRequired("recognized-csv")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
