package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/opforge/opforge/internal/compiler"
	"github.com/opforge/opforge/internal/resolver"
	"github.com/opforge/opforge/internal/synth"
)

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when the pipeline outcome matched the expectation.
	Pass bool

	// Outcome is the Outcome* constant the pipeline actually produced.
	Outcome string

	// Tree is the synthesized decode tree, set only for tree outcomes.
	Tree *synth.DecodeTree

	// Names are the instruction names involved in a failure outcome.
	Names []string

	// Codes are the validation error codes of an invalid outcome.
	Codes []string

	// Errors lists expectation mismatches. Empty when Pass is true.
	Errors []string
}

// Run executes a scenario through the full synthesis pipeline and
// evaluates its expectation.
//
// Pipeline stages, in order:
//  1. Register models (duplicate outcome)
//  2. Batch validation (invalid outcome)
//  3. Encoding resolution with the local resolver
//  4. Pairwise conflict detection (conflict outcome)
//  5. Decode-tree synthesis (slot_collision outcome)
//
// An error return means the harness itself failed, not the scenario.
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	result := run(scenario, logger)
	evaluate(scenario, result)
	return result, nil
}

// run drives the pipeline and records the raw outcome.
func run(scenario *Scenario, logger *slog.Logger) *Result {
	result := &Result{}

	registry := compiler.NewRegistry()
	for _, step := range scenario.Models {
		if err := registry.Add(step.model()); err != nil {
			var dup *compiler.DuplicateNameError
			if errors.As(err, &dup) {
				result.Outcome = OutcomeDuplicate
				result.Names = []string{dup.Name}
				return result
			}
			result.Outcome = OutcomeInvalid
			result.Errors = append(result.Errors, err.Error())
			return result
		}
	}
	models := registry.Models()
	logger.Debug("models registered", "count", len(models))

	if verrs := compiler.ValidateBatch(models); len(verrs) > 0 {
		result.Outcome = OutcomeInvalid
		for _, verr := range verrs {
			result.Codes = append(result.Codes, verr.Code)
		}
		return result
	}

	insts, err := resolver.Encode(&resolver.Local{}, models)
	if err != nil {
		result.Outcome = OutcomeInvalid
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	if err := synth.Validate(insts); err != nil {
		var conflict *synth.ConflictError
		if errors.As(err, &conflict) {
			result.Outcome = OutcomeConflict
			result.Names = []string{conflict.AName, conflict.BName}
			return result
		}
		result.Outcome = OutcomeConflict
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	tree, err := synth.Synthesize(insts)
	if err != nil {
		var slot *synth.SlotError
		if errors.As(err, &slot) {
			result.Outcome = OutcomeSlotCollision
			result.Names = []string{slot.Existing, slot.Incoming}
			return result
		}
		result.Outcome = OutcomeSlotCollision
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Outcome = OutcomeTree
	result.Tree = tree
	return result
}

// evaluate compares the raw outcome against the scenario expectation
// and fills Pass/Errors.
func evaluate(scenario *Scenario, result *Result) {
	expect := scenario.Expect

	if result.Outcome != expect.Outcome {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"outcome = %s, expected %s", result.Outcome, expect.Outcome))
		return
	}

	for _, name := range expect.Names {
		if !containsString(result.Names, name) {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"expected instruction %q in failure, got %v", name, result.Names))
		}
	}

	for _, code := range expect.Codes {
		if !containsString(result.Codes, code) {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"expected validation code %s, got %v", code, result.Codes))
		}
	}

	result.Pass = len(result.Errors) == 0
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
