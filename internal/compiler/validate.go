package compiler

import (
	"fmt"
	"strings"

	"github.com/opforge/opforge/internal/isa"
)

// Validation error codes (E100-E199)
const (
	ErrNameEmpty     = "E100" // instruction name is required
	ErrInvalidForm   = "E101" // form must be RegReg or ImmReg
	ErrOpcodeRange   = "E102" // opcode outside 5-bit range
	ErrFunct3Range   = "E103" // funct3 outside 3-bit range
	ErrFunct7Range   = "E104" // funct7 outside 7-bit range (RegReg only)
	ErrCyclesInvalid = "E105" // cycles must be positive
	ErrDuplicateName = "E106" // duplicate instruction name in batch
)

// ValidationError represents a model validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateBatch validates a whole batch of models.
// Returns all errors found (does not fail-fast); synthesis itself refuses
// to start when any are present.
func ValidateBatch(models []isa.InstructionModel) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool)
	for i, model := range models {
		errs = append(errs, validateModel(i, &model)...)

		if model.Name == "" {
			continue
		}
		if seen[model.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("models[%d].name", i),
				Message: fmt.Sprintf("duplicate instruction name: %q", model.Name),
				Code:    ErrDuplicateName,
			})
		}
		seen[model.Name] = true
	}

	return errs
}

// validateModel checks a single model's fields.
func validateModel(i int, model *isa.InstructionModel) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(model.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("models[%d].name", i),
			Message: "instruction name is required and must be non-empty",
			Code:    ErrNameEmpty,
		})
	}

	if model.Form != isa.RegReg && model.Form != isa.ImmReg {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("models[%d].form", i),
			Message: fmt.Sprintf("invalid form %v, must be R or I", model.Form),
			Code:    ErrInvalidForm,
		})
	}

	if model.Opcode > isa.MaxOpcode {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("models[%d].opcode", i),
			Message: fmt.Sprintf("opcode=%d outside range [0,%d]", model.Opcode, isa.MaxOpcode),
			Code:    ErrOpcodeRange,
		})
	}

	if model.Funct3 > isa.MaxFunct3 {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("models[%d].funct3", i),
			Message: fmt.Sprintf("funct3=%d outside range [0,%d]", model.Funct3, isa.MaxFunct3),
			Code:    ErrFunct3Range,
		})
	}

	if model.Form == isa.RegReg && model.Funct7 > isa.MaxFunct7 {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("models[%d].funct7", i),
			Message: fmt.Sprintf("funct7=%d outside range [0,%d]", model.Funct7, isa.MaxFunct7),
			Code:    ErrFunct7Range,
		})
	}

	if model.Cycles < 1 {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("models[%d].cycles", i),
			Message: fmt.Sprintf("cycles must be positive, got %d", model.Cycles),
			Code:    ErrCyclesInvalid,
		})
	}

	return errs
}
