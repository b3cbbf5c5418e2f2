// Package emit renders textual artifacts from a synthesized decode tree.
//
// Emitters are pure string projections: they walk the tree's traversal
// order (or the instruction list derived from it) and never reorder,
// filter, or re-derive encodings. Given the same tree, every emitter
// produces byte-identical output, which golden tests rely on.
//
// Artifacts:
//   - Decoder: nested opcode → FUNCT3 → FUNCT7 dispatch text for the
//     simulator's ISA decoder
//   - EncodingHeader: mask/match #define header for the assembler
//   - OpcodeEntries / PatchSource: opcode table rows for riscv-opc.c
//   - Intrinsics: C header exposing custom registers and R-type wrappers
//   - TimingTable: per-instruction functional unit timings for the
//     simulator's CPU model
package emit
