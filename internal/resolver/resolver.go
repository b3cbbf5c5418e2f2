package resolver

import (
	"fmt"

	"github.com/opforge/opforge/internal/isa"
)

// Resolver converts an ordered model list to an ordered encoding list.
//
// Contract: the result has the same length and order as the input. A
// failed tool invocation or a different-length result aborts the whole
// synthesis run; no partial result is ever used.
type Resolver interface {
	Resolve(models []isa.InstructionModel) ([]isa.Encoding, error)
}

// ResolutionError reports a resolver contract violation.
type ResolutionError struct {
	Reason string
	Want   int   // expected encoding count (input length)
	Got    int   // actual encoding count
	Err    error // underlying tool error, if any
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encoding resolution failed: %s: %v", e.Reason, e.Err)
	}
	if e.Want != e.Got {
		return fmt.Sprintf("encoding resolution failed: %s (want %d encodings, got %d)", e.Reason, e.Want, e.Got)
	}
	return fmt.Sprintf("encoding resolution failed: %s", e.Reason)
}

// Unwrap returns the underlying error.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Pair zips models with resolver output by index.
// Returns a ResolutionError when the lengths differ.
func Pair(models []isa.InstructionModel, encodings []isa.Encoding) ([]isa.EncodedInstruction, error) {
	if len(models) != len(encodings) {
		return nil, &ResolutionError{
			Reason: "resolver returned mismatched result length",
			Want:   len(models),
			Got:    len(encodings),
		}
	}

	insts := make([]isa.EncodedInstruction, len(models))
	for i := range models {
		insts[i] = isa.EncodedInstruction{
			InstructionModel: models[i],
			Encoding:         encodings[i],
		}
	}
	return insts, nil
}

// Encode runs the resolver and pairs the results in one step.
func Encode(r Resolver, models []isa.InstructionModel) ([]isa.EncodedInstruction, error) {
	encodings, err := r.Resolve(models)
	if err != nil {
		// Wrap foreign errors so callers match on one type.
		var resErr *ResolutionError
		if re, ok := err.(*ResolutionError); ok {
			resErr = re
		} else {
			resErr = &ResolutionError{Reason: "resolver tool failure", Err: err}
		}
		return nil, resErr
	}
	return Pair(models, encodings)
}
