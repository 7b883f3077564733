package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/trailcam-ocr/internal/metrics"
	"github.com/ironsheep/trailcam-ocr/internal/ocr"
	"github.com/ironsheep/trailcam-ocr/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdin/stdout",
		Long: `Run a Model Context Protocol server speaking JSON-RPC 2.0 over stdin and
stdout. Configure it in an MCP client as a stdio server. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, closeFn, err := a.openRecognizer()
			if err != nil {
				return err
			}
			defer a.closeQuietly(closeFn)

			engineCfg := a.cfg.EngineConfig()
			srv := server.New(a.newEngine(rec, ".", metrics.New()), server.Options{
				Version:    a.build.Version,
				Workers:    a.cfg.Batch.Workers,
				Extensions: a.cfg.Batch.Extensions,
				EngineInfo: func() ocr.Info { return ocr.GetInfo(engineCfg) },
			}, a.log)

			a.log.WithField("version", a.build.Version).Info("MCP server listening on stdio")
			return srv.RunWith(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int("workers", 0, "images processed concurrently by timestamp_recognize_folder (0 = one per CPU)")
	cmd.Flags().String("lang", "eng", "Tesseract language")
	cmd.Flags().String("tessdata", "", "Tesseract tessdata directory")
	return cmd
}
