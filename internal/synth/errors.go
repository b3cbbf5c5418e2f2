package synth

import (
	"errors"
	"fmt"
)

// ConflictError reports two instructions whose bit patterns are ambiguous:
// some instruction word would decode as both. Carries both patterns for
// diagnostics.
type ConflictError struct {
	AName  string
	AMask  uint32
	AMatch uint32
	BName  string
	BMask  uint32
	BMatch uint32
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("instructions %q (mask=0x%08x match=0x%08x) and %q (mask=0x%08x match=0x%08x) overlap",
		e.AName, e.AMask, e.AMatch, e.BName, e.BMask, e.BMatch)
}

// SlotReason categorizes slot collisions.
type SlotReason string

const (
	// SlotDuplicateFunct7 indicates two RegReg instructions share
	// (opcode, funct3, funct7).
	SlotDuplicateFunct7 SlotReason = "DUPLICATE_FUNCT7"

	// SlotOccupiedLeaf indicates a second ImmReg instruction targets an
	// already-populated (opcode, funct3) slot.
	SlotOccupiedLeaf SlotReason = "OCCUPIED_LEAF"

	// SlotMixedForm indicates RegReg and ImmReg instructions target the
	// same (opcode, funct3) slot, which the two-level dispatch model
	// cannot represent.
	SlotMixedForm SlotReason = "MIXED_FORM"
)

// SlotError reports two instructions that would occupy the same dispatch
// slot. Earlier versions of the upstream generator silently overwrote the
// slot; that loses instructions, so it is a hard error here.
type SlotError struct {
	Reason   SlotReason
	Opcode   uint8
	Funct3   uint8
	Funct7   uint8 // meaningful for SlotDuplicateFunct7 only
	Existing string
	Incoming string
}

// Error implements the error interface.
func (e *SlotError) Error() string {
	switch e.Reason {
	case SlotDuplicateFunct7:
		return fmt.Sprintf("%s: instructions %q and %q both at opcode=0x%x funct3=0x%x funct7=0x%x",
			e.Reason, e.Existing, e.Incoming, e.Opcode, e.Funct3, e.Funct7)
	default:
		return fmt.Sprintf("%s: instructions %q and %q both at opcode=0x%x funct3=0x%x",
			e.Reason, e.Existing, e.Incoming, e.Opcode, e.Funct3)
	}
}

// IsConflict returns true if the error is an encoding overlap.
// Uses errors.As to handle wrapped errors.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsSlotCollision returns true if the error is a dispatch slot collision.
// Uses errors.As to handle wrapped errors.
func IsSlotCollision(err error) bool {
	var se *SlotError
	return errors.As(err, &se)
}
