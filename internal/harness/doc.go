// Package harness provides conformance testing for the synthesis
// pipeline.
//
// The harness loads instruction batches from YAML scenario files, runs
// them through the full pipeline (registry, batch validation, encoding
// resolution, conflict detection, decode-tree synthesis) and checks the
// outcome against the scenario's expectation.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	models:
//	  - name: macs
//	    form: R
//	    opcode: 2
//	    funct3: 0
//	    funct7: 0
//	    cycles: 3
//	expect:
//	  outcome: tree
//
// # Outcomes
//
// The expect clause names one of:
//
//   - tree: synthesis succeeds; the decode tree is compared against a
//     golden snapshot named after the scenario
//   - invalid: batch validation fails; expect.codes lists the expected
//     validation error codes
//   - duplicate: a model name is registered twice
//   - conflict: pairwise conflict detection rejects the batch;
//     expect.names lists the two instructions involved
//   - slot_collision: tree insertion rejects the batch
//
// # Deterministic Testing
//
// A scenario run has no ambient inputs: the batch comes entirely from
// the file and the local resolver is pure, so the resulting tree (and
// its canonical JSON snapshot) is identical across runs.
package harness
