package isa

import "fmt"

// Form identifies the encoding format of a custom instruction.
type Form int

const (
	// FormInvalid is the zero value; never valid in a model.
	FormInvalid Form = iota

	// RegReg is the R-type format: rd, rs1, rs2, disambiguated by funct7.
	RegReg

	// ImmReg is the I-type format: rd, rs1, imm12. funct7 is not part of
	// the encoding; an ImmReg instruction matches any funct7 value.
	ImmReg
)

// String returns the single-letter format name used in opcode files.
func (f Form) String() string {
	switch f {
	case RegReg:
		return "R"
	case ImmReg:
		return "I"
	default:
		return "invalid"
	}
}

// Field width limits. Opcode is the custom opcode in inst[6:2].
const (
	MaxOpcode uint8 = 31  // 5 bits
	MaxFunct3 uint8 = 7   // 3 bits
	MaxFunct7 uint8 = 127 // 7 bits
)

// InstructionModel is the canonical description of one custom instruction.
//
// Name uniqueness across a batch is enforced by compiler.Registry, not here.
type InstructionModel struct {
	Name       string `json:"name"`
	Form       Form   `json:"form"`
	Opcode     uint8  `json:"opcode"`
	Funct3     uint8  `json:"funct3"`
	Funct7     uint8  `json:"funct7,omitempty"` // RegReg only
	Cycles     int    `json:"cycles"`
	Definition string `json:"definition,omitempty"` // opaque reference body
}

// CheckFields re-checks field bit-width ranges defensively.
// Upstream loaders validate ranges too, but a model constructed directly
// in Go code bypasses them.
func (m *InstructionModel) CheckFields() error {
	if m.Opcode > MaxOpcode {
		return &FieldError{Inst: m.Name, Field: "opcode", Value: uint32(m.Opcode), Max: uint32(MaxOpcode)}
	}
	if m.Funct3 > MaxFunct3 {
		return &FieldError{Inst: m.Name, Field: "funct3", Value: uint32(m.Funct3), Max: uint32(MaxFunct3)}
	}
	if m.Form == RegReg && m.Funct7 > MaxFunct7 {
		return &FieldError{Inst: m.Name, Field: "funct7", Value: uint32(m.Funct7), Max: uint32(MaxFunct7)}
	}
	return nil
}

// FieldError reports a model field outside its declared bit width.
type FieldError struct {
	Inst  string // instruction name
	Field string // "opcode", "funct3", "funct7"
	Value uint32
	Max   uint32
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("instruction %q: %s=%d exceeds maximum %d", e.Inst, e.Field, e.Value, e.Max)
}
