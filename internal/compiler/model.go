package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/opforge/opforge/internal/isa"
)

// CompileModel parses a CUE value into an InstructionModel.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the instruction struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`instruction: macs: { ... }`)
//	model, err := CompileModel(v.LookupPath(cue.ParsePath("instruction.macs")))
func CompileModel(v cue.Value) (*isa.InstructionModel, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	model := &isa.InstructionModel{}

	// The instruction name is the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		model.Name = labels[len(labels)-1].String()
	}
	if model.Name == "" {
		return nil, &CompileError{
			Field:   "name",
			Message: "instruction name is required",
			Pos:     v.Pos(),
		}
	}

	// Parse form (required): "R" or "I".
	formVal := v.LookupPath(cue.ParsePath("form"))
	if !formVal.Exists() {
		return nil, &CompileError{
			Field:   "form",
			Message: "form is required",
			Pos:     v.Pos(),
		}
	}
	formStr, err := formVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	switch formStr {
	case "R":
		model.Form = isa.RegReg
	case "I":
		model.Form = isa.ImmReg
	default:
		return nil, &CompileError{
			Field:   "form",
			Message: fmt.Sprintf("invalid form %q, must be \"R\" or \"I\"", formStr),
			Pos:     formVal.Pos(),
		}
	}

	// Parse encoding fields, checking declared bit widths here so the
	// error carries a source position.
	opcode, err := parseField(v, "opcode", int64(isa.MaxOpcode), true)
	if err != nil {
		return nil, err
	}
	model.Opcode = uint8(opcode)

	funct3, err := parseField(v, "funct3", int64(isa.MaxFunct3), true)
	if err != nil {
		return nil, err
	}
	model.Funct3 = uint8(funct3)

	// funct7 is meaningful for RegReg only; ignored (and optional) for ImmReg.
	if model.Form == isa.RegReg {
		funct7, err := parseField(v, "funct7", int64(isa.MaxFunct7), true)
		if err != nil {
			return nil, err
		}
		model.Funct7 = uint8(funct7)
	}

	// Parse cycles (required, positive).
	cyclesVal := v.LookupPath(cue.ParsePath("cycles"))
	if !cyclesVal.Exists() {
		return nil, &CompileError{
			Field:   "cycles",
			Message: "cycles is required",
			Pos:     v.Pos(),
		}
	}
	cycles, err := cyclesVal.Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	if cycles < 1 {
		return nil, &CompileError{
			Field:   "cycles",
			Message: fmt.Sprintf("cycles must be positive, got %d", cycles),
			Pos:     cyclesVal.Pos(),
		}
	}
	model.Cycles = int(cycles)

	// Parse definition (optional opaque reference body).
	defVal := v.LookupPath(cue.ParsePath("definition"))
	if defVal.Exists() {
		definition, err := defVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		model.Definition = definition
	}

	return model, nil
}

// parseField reads one unsigned encoding field and checks its bit width.
func parseField(v cue.Value, name string, max int64, required bool) (int64, error) {
	fieldVal := v.LookupPath(cue.ParsePath(name))
	if !fieldVal.Exists() {
		if !required {
			return 0, nil
		}
		return 0, &CompileError{
			Field:   name,
			Message: fmt.Sprintf("%s is required", name),
			Pos:     v.Pos(),
		}
	}

	value, err := fieldVal.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	if value < 0 || value > max {
		return 0, &CompileError{
			Field:   name,
			Message: fmt.Sprintf("%s=%d outside range [0,%d]", name, value, max),
			Pos:     fieldVal.Pos(),
		}
	}
	return value, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
