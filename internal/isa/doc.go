// Package isa provides canonical data types for custom RISC-V instructions.
//
// This package contains type definitions and field-level validation only.
// All other internal packages import isa; isa imports nothing internal.
// This ensures it remains the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - Instruction fields are narrow unsigned values: opcode is inst[6:2]
//     (5 bits), funct3 is inst[14:12] (3 bits), funct7 is inst[31:25]
//     (7 bits, RegReg only)
//   - The definition payload is opaque reference text; nothing in this
//     module inspects it
//   - Values are immutable once constructed; a synthesis run never mutates
//     its input models
package isa
