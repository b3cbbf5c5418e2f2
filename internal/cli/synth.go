package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opforge/opforge/internal/compiler"
	"github.com/opforge/opforge/internal/isa"
	"github.com/opforge/opforge/internal/resolver"
	"github.com/opforge/opforge/internal/synth"
)

// SynthOptions holds flags for the synth command.
type SynthOptions struct {
	*RootOptions
	Output string // output file path for the canonical tree snapshot
}

// NewSynthCommand creates the synth command.
func NewSynthCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SynthOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "synth <models-dir>",
		Short: "Synthesize the decode tree for an instruction set",
		Long: `Resolve encodings, detect opcode conflicts, and synthesize the
hierarchical decode tree for a batch of instruction descriptors.

The tree is printed as a dispatch summary (text) or canonical JSON
(--format json). Conflicts and slot collisions abort synthesis.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write canonical tree snapshot to file")

	return cmd
}

func runSynth(opts *SynthOptions, modelsDir string, cmd *cobra.Command) error {
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

	if opts.Output != "" {
		snapshot, err := isa.MarshalCanonical(tree.CanonicalMap())
		if err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("marshaling tree: %v", err))
		}
		if err := os.WriteFile(opts.Output, snapshot, 0o644); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputSynthSuccess(formatter, tree, opts.Output)
}

// runPipeline drives models through registration, validation, encoding
// resolution, conflict detection, and tree synthesis. The returned error
// is always an ExitError with output already written.
func runPipeline(formatter *OutputFormatter, modelsDir string) (*synth.DecodeTree, []isa.EncodedInstruction, error) {
	loadResult, loadErrors := LoadModels(modelsDir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return nil, nil, outputCommandError(formatter, loadErr.Code, loadErr.Message)
		}
		return nil, nil, outputCommandError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, modelsDir)

	var validationErrors []compiler.ValidationError
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			validationErrors = append(validationErrors, compiler.ValidationError{
				Field: "load", Message: loadErr.Message, Code: loadErr.Code,
			})
		}
	}

	// Registration enforces name uniqueness before anything else runs.
	registry := compiler.NewRegistry()
	for _, model := range loadResult.Models {
		if err := registry.Add(model); err != nil {
			validationErrors = append(validationErrors, compiler.ValidationError{
				Field: "name", Message: err.Error(), Code: compiler.ErrDuplicateName,
			})
		}
	}

	models := registry.Models()
	validationErrors = append(validationErrors, compiler.ValidateBatch(models)...)
	if len(validationErrors) > 0 {
		return nil, nil, outputValidationErrors(formatter, validationErrors)
	}

	for _, model := range models {
		formatter.VerboseLog("Resolving encoding: %s (%s)", model.Name, model.Form)
	}

	insts, err := resolver.Encode(&resolver.Local{}, models)
	if err != nil {
		return nil, nil, outputSynthFailure(formatter, ErrCodeResolution, err)
	}

	if err := synth.Validate(insts); err != nil {
		return nil, nil, outputSynthFailure(formatter, ErrCodeConflict, err)
	}

	tree, err := synth.Synthesize(insts)
	if err != nil {
		return nil, nil, outputSynthFailure(formatter, ErrCodeSlot, err)
	}

	return tree, tree.Instructions(), nil
}

// outputSynthFailure reports a pipeline failure (exit code 1).
func outputSynthFailure(formatter *OutputFormatter, code string, err error) error {
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitFailure, fmt.Sprintf("synthesis failed [%s]", code), err)
}

// outputSynthSuccess outputs the synthesized tree.
func outputSynthSuccess(formatter *OutputFormatter, tree *synth.DecodeTree, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(tree.CanonicalMap())
	}

	count := len(tree.Instructions())
	fmt.Fprintf(formatter.Writer, "✓ Synthesized decode tree for %d instruction(s)\n\n", count)

	tree.Walk(func(opcode, funct3 uint8, slot synth.Slot) error {
		if slot.Leaf != nil {
			fmt.Fprintf(formatter.Writer, "  opcode 0x%x funct3 %d: %s (I)\n", opcode, funct3, slot.Leaf.Name)
			return nil
		}
		fmt.Fprintf(formatter.Writer, "  opcode 0x%x funct3 %d:\n", opcode, funct3)
		for _, entry := range slot.Entries {
			fmt.Fprintf(formatter.Writer, "    funct7 %d: %s (R)\n", entry.Funct7, entry.Inst.Name)
		}
		return nil
	})

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote canonical snapshot to %s\n", outputFile)
	}

	return nil
}
