package resolver

import (
	"fmt"

	"github.com/opforge/opforge/internal/isa"
)

// Fixed-format masks for the two supported encoding forms.
// RegReg fixes funct7, funct3, and the full 7-bit opcode field; ImmReg
// leaves funct7 free, which makes its mask structurally looser.
const (
	maskRegReg uint32 = 0xFE00707F
	maskImmReg uint32 = 0x0000707F
)

// Local resolves encodings in-process from the model fields.
//
// It is the default Resolver. The external parse-opcodes script remains
// usable behind the same interface, but the placement rules for the two
// custom forms are simple enough to compute directly.
type Local struct{}

// Resolve implements Resolver.
func (Local) Resolve(models []isa.InstructionModel) ([]isa.Encoding, error) {
	encodings := make([]isa.Encoding, len(models))
	for i, m := range models {
		if err := m.CheckFields(); err != nil {
			return nil, &ResolutionError{Reason: fmt.Sprintf("model %q has out-of-range fields", m.Name), Err: err}
		}

		match := uint32(m.Opcode)<<isa.OpcodeShift |
			uint32(m.Funct3)<<isa.Funct3Shift |
			isa.QuadrantBits

		switch m.Form {
		case isa.RegReg:
			match |= uint32(m.Funct7) << isa.Funct7Shift
			encodings[i] = isa.Encoding{Mask: maskRegReg, Match: match}
		case isa.ImmReg:
			encodings[i] = isa.Encoding{Mask: maskImmReg, Match: match}
		default:
			return nil, &ResolutionError{Reason: fmt.Sprintf("model %q has unsupported form %v", m.Name, m.Form)}
		}
	}
	return encodings, nil
}
