package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opforge/opforge/internal/patchstore"
)

// RestoreOptions holds flags for the restore command.
type RestoreOptions struct {
	*RootOptions
	Journal string
}

// NewRestoreCommand creates the restore command.
func NewRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RestoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "restore [target ...]",
		Short: "Revert files patched by extend",
		Long: `Restore patched toolchain files to their pre-extend content.

Without arguments every journaled file is restored, newest first. With
arguments only the named targets are restored. Files created by extend
are removed again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", ".opforge/patches.db", "patch journal path")

	return cmd
}

func runRestore(opts *RestoreOptions, targets []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(opts.Journal); os.IsNotExist(err) {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("patch journal not found: %s", opts.Journal))
	}

	store, err := patchstore.Open(opts.Journal, nil)
	if err != nil {
		return outputCommandError(formatter, ErrCodeJournal, err.Error())
	}
	defer store.Close()

	ctx := cmd.Context()
	var restored []string

	if len(targets) == 0 {
		restored, err = store.RestoreAll(ctx)
		if err != nil {
			return outputCommandError(formatter, ErrCodeJournal, err.Error())
		}
	} else {
		for _, target := range targets {
			if err := store.Restore(ctx, target); err != nil {
				if errors.Is(err, patchstore.ErrNotTracked) {
					return outputCommandError(formatter, ErrCodeNotFound, err.Error())
				}
				return outputCommandError(formatter, ErrCodeJournal, err.Error())
			}
			restored = append(restored, target)
		}
	}

	return outputRestoreSuccess(formatter, restored)
}

// RestoreResult is the JSON payload for a successful restore run.
type RestoreResult struct {
	Restored []string `json:"restored"`
}

func outputRestoreSuccess(formatter *OutputFormatter, restored []string) error {
	if formatter.Format == "json" {
		return formatter.Success(RestoreResult{Restored: restored})
	}

	if len(restored) == 0 {
		fmt.Fprintln(formatter.Writer, "Nothing to restore")
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✓ Restored %d file(s)\n\n", len(restored))
	for _, path := range restored {
		fmt.Fprintf(formatter.Writer, "  %s\n", path)
	}
	return nil
}
