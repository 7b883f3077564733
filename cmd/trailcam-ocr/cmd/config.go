package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/trailcam-ocr/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", out)
			return nil
		},
	}, &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in use and the search paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			used := a.loader.ConfigFileUsed()
			if used == "" {
				used = "(none)"
			}
			printf(w, "Configuration file used: %s\n", used)
			printf(w, "Search paths:\n")
			for _, p := range config.SearchPaths() {
				printf(w, "  %s\n", p)
			}
			printf(w, "Environment prefix: %s_\n", config.EnvPrefix)
			return nil
		},
	})
	return cmd
}
