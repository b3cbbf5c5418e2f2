package isa

// Bit positions of the fixed-format fields in a 32-bit instruction word.
// The custom opcode occupies inst[6:2]; inst[1:0] is always 0b11 for
// non-compressed instructions.
const (
	OpcodeShift = 2
	Funct3Shift = 12
	Funct7Shift = 25

	// QuadrantBits are the low two bits, fixed to 3 for 32-bit encodings.
	QuadrantBits uint32 = 0x3
)

// Encoding is one (mask, match) pair produced by an encoding resolver.
// An instruction word w is selected when w&Mask == Match.
type Encoding struct {
	Mask  uint32 `json:"mask"`
	Match uint32 `json:"match"`
}

// EncodedInstruction pairs a model with its resolved encoding.
type EncodedInstruction struct {
	InstructionModel
	Encoding
}
