package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opforge/opforge/internal/extract"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <reference.cc>",
		Short: "Extract an instruction model from a C++ reference",
		Long: `Extract the mnemonic and semantic body from a C++ reference
implementation of a custom instruction.

The last function definition in the file names the instruction; its
body is captured verbatim for use as the descriptor's definition field.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runExtract(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	model, err := extract.ParseFile(path)
	if err != nil {
		if extract.IsParseError(err) {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitFailure, "extraction failed", err)
		}
		return outputCommandError(formatter, ErrCodeNotFound, err.Error())
	}

	return outputExtractSuccess(formatter, model)
}

// ExtractResult is the JSON payload for a successful extraction.
type ExtractResult struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
}

func outputExtractSuccess(formatter *OutputFormatter, model *extract.Model) error {
	if formatter.Format == "json" {
		return formatter.Success(ExtractResult{
			Name:       model.Name,
			Definition: model.Definition,
		})
	}

	fmt.Fprintf(formatter.Writer, "name: %s\ndefinition:\n%s\n", model.Name, model.Definition)
	return nil
}
