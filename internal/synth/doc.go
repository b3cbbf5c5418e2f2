// Package synth certifies and organizes custom instruction encodings.
//
// The package is the heart of opforge. It receives resolved instructions,
// proves that their bit patterns occupy disjoint regions of the 32-bit
// instruction-word space, and arranges them into the hierarchical decode
// tree that artifact emitters walk.
//
// PIPELINE:
//
//  1. Validate() runs the pairwise overlap scan. The test is
//     format-dependent: an ImmReg instruction ignores funct7 entirely, so
//     its effective mask is looser than a RegReg one and a naive
//     bit-for-bit field comparison would miss real ambiguity. Validate
//     fails fast on the first overlap, since any conflict blocks the
//     whole batch.
//  2. Synthesize() stably sorts the conflict-free set by
//     (opcode, funct3, funct7) and groups it opcode → funct3 → leaf or
//     funct7 group. The sort is a correctness requirement: two runs over
//     the same logical set must produce byte-identical artifacts.
//
// DETERMINISM:
//
// Synthesis is a pure function of its input list. There is no I/O, no
// shared mutable state, and no randomness; the decode tree is read-only
// once built and its traversal order equals the sorted order.
package synth
