package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bud/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build output and the build cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputOnly, _ := cmd.Flags().GetBool("output-only")
			cacheOnly, _ := cmd.Flags().GetBool("cache-only")

			opts := app.CleanOptions{Output: true, Meta: true}
			opts.OutputDir, _ = cmd.Flags().GetString("output")
			opts.MetaDir, _ = cmd.Flags().GetString("meta")
			switch {
			case outputOnly:
				opts.Meta = false
			case cacheOnly:
				opts.Output = false
			}
			return c.app.Clean(cmd.Context(), opts)
		},
	}
	cmd.Flags().Bool("output-only", false, "Only remove the output directory")
	cmd.Flags().Bool("cache-only", false, "Only remove the cache directory")
	cmd.MarkFlagsMutuallyExclusive("output-only", "cache-only")
	return cmd
}
