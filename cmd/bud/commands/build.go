package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bud/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] -- <command> [args...]",
		Short: "Run a command over the sources and merge its output",
		Long: `Runs <command> with every matching source file appended to its arguments.

The command runs in a fresh output directory and finds the directories and the
output extension in BUD_SOURCE_DIR, BUD_OUTPUT_DIR and BUD_OUTPUT_EXT. Its output
is cached by a signature of the sources, so unchanged inputs are not rebuilt.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			flags := cmd.Flags()
			opts := app.BuildOptions{Command: args}
			opts.SourceExt, _ = flags.GetString("ext")
			opts.Glob, _ = flags.GetString("glob")
			opts.OutputExt, _ = flags.GetString("out-ext")
			opts.Salt, _ = flags.GetString("salt")
			opts.Name, _ = flags.GetString("name")
			opts.Parallelism, _ = flags.GetInt("parallelism")
			opts.JSON, _ = flags.GetBool("json")
			opts.Telemetry, _ = flags.GetString("telemetry")
			opts.SourceDir, _ = flags.GetString("source")
			opts.OutputDir, _ = flags.GetString("output")
			opts.MetaDir, _ = flags.GetString("meta")

			summary, err := c.app.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return summary.Render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringP("ext", "e", "", "Extension of the source files")
	cmd.Flags().StringP("glob", "g", "", "Select sources with a glob instead of --ext")
	cmd.Flags().String("out-ext", "", "Extension of the produced files")
	cmd.Flags().String("salt", "", "Extra string mixed into the task signature")
	cmd.Flags().String("name", "", "Task name shown in logs")
	cmd.Flags().IntP("parallelism", "j", 0, "Maximum number of concurrent tasks")
	cmd.Flags().Bool("json", false, "Log in JSON")
	cmd.Flags().String("telemetry", "", "Tracing backend: otel, progrock or none")
	cmd.MarkFlagsMutuallyExclusive("ext", "glob")
	return cmd
}
