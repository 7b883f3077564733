package cmd

import (
	"errors"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ironsheep/trailcam-ocr/internal/batch"
	"github.com/ironsheep/trailcam-ocr/internal/video"
)

func newFramesCommand(a *app) *cobra.Command {
	var folder, out string
	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Save the last frame of every AVI clip in a folder as PNG",
		Long: `Save the last frame of each .avi clip directly inside a folder as
<clip>_lastframe.png, ready for extract. Frames go to <folder>/AVI_last_frames
unless --out is given. Needs a binary built with -tags gocv.`,
		Example: `  trailcam-ocr frames --folder ./clips
  trailcam-ocr extract --image-folder ./clips/AVI_last_frames --output-csv ./clips.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := video.NewExtractor(a.frames, a.log).ExtractLastFrames(cmd.Context(), folder, out)
			if errors.Is(err, batch.ErrNoImages) {
				a.log.WithField("folder", folder).Warn("no .avi files found")
				return nil
			}
			if s == nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, p := range s.Saved {
				printf(w, "Saved: %s\n", p)
			}
			failed := make([]string, 0, len(s.Failed))
			for clip := range s.Failed {
				failed = append(failed, clip)
			}
			sort.Strings(failed)
			for _, clip := range failed {
				printf(w, "ERROR: %s: %v\n", filepath.Base(clip), s.Failed[clip])
			}
			printf(w, "Summary: %d saved, %d failed, out of %d clip(s).\n", len(s.Saved), len(s.Failed), s.Total)
			printf(w, "Output folder: %s\n", s.OutDir)
			return err
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "folder containing the clips")
	cmd.Flags().StringVar(&out, "out", "", "output folder (default <folder>/AVI_last_frames)")
	_ = cmd.MarkFlagRequired("folder")
	return cmd
}
