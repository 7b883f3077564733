package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/trailcam-ocr/internal/timestamp"
)

func newParseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse TEXT...",
		Short: "Show how OCR text is normalized and parsed",
		Example: `  trailcam-ocr parse "2024-08-01 06:31:27"
  trailcam-ocr parse "2O24/O8-01 063127" "garbage"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := timestamp.DefaultParser()
			weights := a.cfg.RecognizeOptions().Weights
			out := cmd.OutOrStdout()
			for i, text := range args {
				if i > 0 {
					printf(out, "\n")
				}
				m, ok := parser.Explain(text)
				printf(out, "Input:      %q\n", text)
				printf(out, "Normalized: %q\n", m.Normalized)
				printf(out, "Repaired:   %q\n", m.Repaired)
				if ok {
					printf(out, "Timestamp:  %s\n", m.Timestamp.Canonical())
					printf(out, "Strategy:   %s\n", m.Strategy)
				} else {
					printf(out, "Timestamp:  not found\n")
				}
				printf(out, "Layout:     %+.2f\n", weights.LayoutScore(text))
			}
			return nil
		},
	}
}
