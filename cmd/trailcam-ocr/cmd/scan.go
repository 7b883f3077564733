package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/trailcam-ocr/internal/report"
)

func newScanCommand(a *app) *cobra.Command {
	var folder, output string
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List EXIF DateTimeOriginal of stills and Last-Modified of clips",
		Long: `Scan one folder (non-recursive) and write filename,type,DateTimeOriginal,LastModified.
JPG/JPEG stills report the camera's EXIF DateTimeOriginal ("YYYY:MM:DD HH:MM:SS")
and AVI clips their local modification time. Other files are ignored.

Clips carry no EXIF, so split the sheet on DateTimeOriginal and combine it
with the recognized last-frame timestamps to fill their Date and Time.`,
		Example: `  trailcam-ocr scan --folder ./KO_2_1 --output date_time_original.csv
  trailcam-ocr split --input date_time_original.csv --output exif_split.csv --col DateTimeOriginal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := report.ScanFolderFile(folder, output, a.exif)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			var images, videos int
			for _, r := range rows {
				if r.Type == report.TypeVideo {
					videos++
				} else {
					images++
				}
				switch {
				case r.Failed():
					a.log.WithField("file", r.Filename).Warn("timestamp unreadable")
					printf(w, "%s: %s%s\n", r.Filename, r.DateTimeOriginal, r.LastModified)
				case r.Type == report.TypeVideo:
					printf(w, "%s: Last modified = %s\n", r.Filename, r.LastModified)
				case r.DateTimeOriginal == report.NotFound:
					printf(w, "%s: DateTimeOriginal NOT found.\n", r.Filename)
				default:
					printf(w, "%s: DateTimeOriginal = %s\n", r.Filename, r.DateTimeOriginal)
				}
			}
			a.log.WithFields(logrus.Fields{"images": images, "videos": videos}).Debug("scan done")
			printf(w, "Summary: %d image(s), %d video(s) processed.\n", images, videos)
			printf(w, "Saved: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "folder to scan")
	cmd.Flags().StringVar(&output, "output", "", "output CSV")
	_ = cmd.MarkFlagRequired("folder")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
