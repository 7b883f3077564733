package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/trailcam-ocr/internal/ocr"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			printf(w, "trailcam-ocr %s\n", a.build.Version)
			printf(w, "  Build time: %s\n", a.build.BuildTime)
			printf(w, "  Git commit: %s\n", a.build.GitCommit)
			info := ocr.GetInfo(a.cfg.EngineConfig())
			if info.Available {
				printf(w, "  Tesseract:  %s\n", info.Version)
			} else {
				printf(w, "  Tesseract:  not available (%s)\n", info.Error)
			}
			return nil
		},
	}
}
