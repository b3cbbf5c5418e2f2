package compiler

import (
	"fmt"

	"github.com/opforge/opforge/internal/isa"
)

// Registry collects the models of one synthesis batch and enforces name
// uniqueness before resolution is attempted. Names become generated-symbol
// identifiers downstream, so a duplicate would produce colliding symbols.
//
// Names are case-sensitive. Insertion order is preserved; the registry
// never reorders models.
type Registry struct {
	models []isa.InstructionModel
	names  map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]bool)}
}

// Add appends a model to the batch.
// Returns a DuplicateNameError if the name is already registered.
func (r *Registry) Add(m isa.InstructionModel) error {
	if m.Name == "" {
		return &DuplicateNameError{Name: ""}
	}
	if r.names[m.Name] {
		return &DuplicateNameError{Name: m.Name}
	}
	r.names[m.Name] = true
	r.models = append(r.models, m)
	return nil
}

// Models returns the batch in insertion order.
// The returned slice is a copy; mutating it does not affect the registry.
func (r *Registry) Models() []isa.InstructionModel {
	models := make([]isa.InstructionModel, len(r.models))
	copy(models, r.models)
	return models
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	return len(r.models)
}

// DuplicateNameError reports two models sharing a name within one batch.
// An empty Name means a model arrived without one.
type DuplicateNameError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	if e.Name == "" {
		return "instruction model has no name"
	}
	return fmt.Sprintf("duplicate instruction name: %q", e.Name)
}
