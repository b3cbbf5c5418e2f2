package cli

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <models-dir>",
		Short: "Dump the synthesized decode tree structure",
		Long: `Run the synthesis pipeline and dump the full decode tree with Go
type information. Intended for debugging descriptor sets; use synth for
stable output.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDump(opts *RootOptions, modelsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	tree, _, err := runPipeline(formatter, modelsDir)
	if err != nil {
		return err
	}

	spew.Fdump(formatter.Writer, tree)
	return nil
}
