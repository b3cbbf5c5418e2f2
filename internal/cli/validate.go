package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opforge/opforge/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <models-dir>",
		Short: "Validate instruction descriptors without synthesis",
		Long: `Validate CUE instruction descriptors without running synthesis.

Performs syntax checking, field range validation, and duplicate-name
checks without resolving encodings or generating artifacts. Faster than
synth for development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, modelsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadModels(modelsDir, LoadModeCollectAll)

	// Handle load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCommandError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputCommandError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, modelsDir)
	for _, model := range loadResult.Models {
		formatter.VerboseLog("Validating instruction: %s", model.Name)
	}

	// Descriptor-level errors become validation errors alongside the
	// batch checks.
	var validationErrors []compiler.ValidationError
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			validationErrors = append(validationErrors, compiler.ValidationError{
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
			})
		} else {
			validationErrors = append(validationErrors, compiler.ValidationError{
				Field:   "load",
				Message: err.Error(),
				Code:    ErrCodeGeneric,
			})
		}
	}
	validationErrors = append(validationErrors, compiler.ValidateBatch(loadResult.Models)...)

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	return outputValidateSuccess(formatter, len(loadResult.Models))
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, count int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintf(formatter.Writer, "✓ %d instruction(s) valid\n", count)
	return nil
}

// outputCommandError outputs a command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", err.Code, err.Message)
	}
	fmt.Fprintln(formatter.Writer)

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
