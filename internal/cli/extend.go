package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opforge/opforge/internal/emit"
	"github.com/opforge/opforge/internal/patchstore"
)

// ExtendOptions holds flags for the extend command.
type ExtendOptions struct {
	*RootOptions
	Toolchain string // riscv-gnu-toolchain checkout
	Gem5      string // gem5 checkout
	Registers string // custom register map YAML
	Journal   string // patch journal path
}

// Default artifact locations inside the two source trees.
const (
	relOpcHeader  = "riscv-binutils-gdb/include/opcode/riscv-custom-opc.h"
	relOpcSource  = "riscv-binutils-gdb/opcodes/riscv-opc.c"
	relIntrinsics = "riscv_intrinsics.h"
	relDecoder    = "src/arch/riscv/isa/decoder/custom.isa"
	relTiming     = "configs/custom/timing.py"
)

// NewExtendCommand creates the extend command.
func NewExtendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExtendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "extend <models-dir>",
		Short: "Generate artifacts and patch toolchain sources",
		Long: `Run the full synthesis pipeline and write the generated artifacts
into the toolchain and simulator source trees.

Artifacts written under --toolchain:
  riscv-binutils-gdb/include/opcode/riscv-custom-opc.h  (encoding header)
  riscv-binutils-gdb/opcodes/riscv-opc.c                (opcode table patch)
  riscv_intrinsics.h                                    (C intrinsics)

Artifacts written under --gem5:
  src/arch/riscv/isa/decoder/custom.isa                 (decoder block)
  configs/custom/timing.py                              (timing table)

Every touched file is journaled first; "opforge restore" reverts the
tree to its pre-extend state. Re-running extend is safe: the journal
keeps the original content from the first run.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtend(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Toolchain, "toolchain", "", "riscv-gnu-toolchain checkout to patch")
	cmd.Flags().StringVar(&opts.Gem5, "gem5", "", "gem5 checkout to patch")
	cmd.Flags().StringVar(&opts.Registers, "registers", "", "custom register map YAML for intrinsics")
	cmd.Flags().StringVar(&opts.Journal, "journal", ".opforge/patches.db", "patch journal path")

	return cmd
}

func runExtend(opts *ExtendOptions, modelsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Toolchain == "" && opts.Gem5 == "" {
		return outputCommandError(formatter, ErrCodeGeneric, "at least one of --toolchain and --gem5 is required")
	}

	tree, insts, err := runPipeline(formatter, modelsDir)
	if err != nil {
		return err
	}

	regmap := &emit.RegisterMap{}
	if opts.Registers != "" {
		regmap, err = emit.LoadRegisterMap(opts.Registers)
		if err != nil {
			return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("loading register map: %v", err))
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.Journal), 0o755); err != nil {
		return outputCommandError(formatter, ErrCodeJournal, fmt.Sprintf("creating journal directory: %v", err))
	}
	store, err := patchstore.Open(opts.Journal, nil)
	if err != nil {
		return outputCommandError(formatter, ErrCodeJournal, err.Error())
	}
	defer store.Close()

	ctx := cmd.Context()
	var written []string

	apply := func(target, content string) error {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("creating %s: %v", filepath.Dir(target), err))
		}
		if err := store.Apply(ctx, target, []byte(content)); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, err.Error())
		}
		formatter.VerboseLog("Wrote %s", target)
		written = append(written, target)
		return nil
	}

	if opts.Toolchain != "" {
		if err := apply(filepath.Join(opts.Toolchain, relOpcHeader), emit.EncodingHeader(insts)); err != nil {
			return err
		}

		// The opcode table is patched in place, not replaced.
		sourcePath := filepath.Join(opts.Toolchain, relOpcSource)
		source, err := os.ReadFile(sourcePath)
		if err != nil {
			return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("reading opcode table: %v", err))
		}
		patched := emit.PatchSource(string(source), emit.OpcodeEntries(insts))
		if err := apply(sourcePath, patched); err != nil {
			return err
		}

		intrinsics, err := emit.Intrinsics(regmap, insts)
		if err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("rendering intrinsics: %v", err))
		}
		if err := apply(filepath.Join(opts.Toolchain, relIntrinsics), intrinsics); err != nil {
			return err
		}
	}

	if opts.Gem5 != "" {
		if err := apply(filepath.Join(opts.Gem5, relDecoder), emit.Decoder(tree)); err != nil {
			return err
		}

		timing, err := emit.TimingTable(insts)
		if err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("rendering timing table: %v", err))
		}
		if err := apply(filepath.Join(opts.Gem5, relTiming), timing); err != nil {
			return err
		}
	}

	return outputExtendSuccess(formatter, len(insts), written, opts.Journal)
}

// ExtendResult is the JSON payload for a successful extend run.
type ExtendResult struct {
	Instructions int      `json:"instructions"`
	Written      []string `json:"written"`
	Journal      string   `json:"journal"`
}

func outputExtendSuccess(formatter *OutputFormatter, instCount int, written []string, journal string) error {
	if formatter.Format == "json" {
		return formatter.Success(ExtendResult{
			Instructions: instCount,
			Written:      written,
			Journal:      journal,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Extended %d file(s) for %d instruction(s)\n\n", len(written), instCount)
	for _, path := range written {
		fmt.Fprintf(formatter.Writer, "  %s\n", path)
	}
	fmt.Fprintf(formatter.Writer, "\nJournal: %s (revert with \"opforge restore\")\n", journal)
	return nil
}
