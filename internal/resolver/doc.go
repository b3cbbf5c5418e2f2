// Package resolver maps instruction models to raw (mask, match) encodings.
//
// The Resolver interface is the collaborator boundary: given an ordered
// list of models it returns an ordered list of encodings of the same
// length. The zip between the two lists is positional, so Pair makes that
// contract explicit and fails loudly on a length mismatch instead of
// trusting array alignment.
//
// Local is the built-in resolver. It places fields the way the
// riscv-opcodes project does for 32-bit instructions: opcode in bits 6:2,
// funct3 in bits 14:12, funct7 in bits 31:25, and bits 1:0 fixed to 0b11.
package resolver
