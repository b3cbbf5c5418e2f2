package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/opforge/opforge/internal/isa"
)

// Scenario defines a conformance test scenario: an instruction batch
// plus the expected pipeline outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// snapshot name for tree outcomes.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Models is the instruction batch, in declaration order.
	Models []ModelStep `yaml:"models"`

	// Expect specifies the required pipeline outcome.
	Expect ExpectClause `yaml:"expect"`
}

// ModelStep declares one instruction model.
type ModelStep struct {
	Name       string `yaml:"name"`
	Form       string `yaml:"form"` // "R" or "I"
	Opcode     uint8  `yaml:"opcode"`
	Funct3     uint8  `yaml:"funct3"`
	Funct7     uint8  `yaml:"funct7,omitempty"` // R only
	Cycles     int    `yaml:"cycles"`
	Definition string `yaml:"definition,omitempty"`
}

// ExpectClause specifies the expected outcome of running the batch.
type ExpectClause struct {
	// Outcome is one of the Outcome* constants.
	Outcome string `yaml:"outcome"`

	// Names lists instruction names that must appear in the failure
	// (conflict pairs, colliding slot occupants). Subset match.
	Names []string `yaml:"names,omitempty"`

	// Codes lists validation error codes that must be reported.
	// Used with the invalid outcome. Subset match.
	Codes []string `yaml:"codes,omitempty"`
}

// Outcome constants for ExpectClause.Outcome.
const (
	OutcomeTree          = "tree"
	OutcomeInvalid       = "invalid"
	OutcomeDuplicate     = "duplicate"
	OutcomeConflict      = "conflict"
	OutcomeSlotCollision = "slot_collision"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Models) == 0 {
		return fmt.Errorf("models list is required and must be non-empty")
	}

	for i, step := range s.Models {
		if step.Name == "" {
			return fmt.Errorf("models[%d]: name is required", i)
		}
		if step.Form != "R" && step.Form != "I" {
			return fmt.Errorf("models[%d]: form must be R or I, got %q", i, step.Form)
		}
	}

	switch s.Expect.Outcome {
	case OutcomeTree, OutcomeInvalid, OutcomeDuplicate, OutcomeConflict, OutcomeSlotCollision:
	case "":
		return fmt.Errorf("expect.outcome is required")
	default:
		return fmt.Errorf("unknown outcome %q", s.Expect.Outcome)
	}

	return nil
}

// model converts a step to the pipeline model type. Field ranges are
// deliberately not checked here; the pipeline's own validation is the
// thing under test.
func (s *ModelStep) model() isa.InstructionModel {
	form := isa.FormInvalid
	switch s.Form {
	case "R":
		form = isa.RegReg
	case "I":
		form = isa.ImmReg
	}
	return isa.InstructionModel{
		Name:       s.Name,
		Form:       form,
		Opcode:     s.Opcode,
		Funct3:     s.Funct3,
		Funct7:     s.Funct7,
		Cycles:     s.Cycles,
		Definition: s.Definition,
	}
}
