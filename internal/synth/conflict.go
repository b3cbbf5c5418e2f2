package synth

import (
	"github.com/opforge/opforge/internal/isa"
)

// Validate certifies that no single instruction word could decode as more
// than one instruction in the set.
//
// The scan is pairwise, O(n²) over the batch; n is tens at most. It fails
// fast on the first overlap because any conflict invalidates the whole
// batch. Two entries carrying the same name are treated as the same
// instruction revisited and skipped.
//
// Detection is order-independent: each unordered pair is examined in both
// directions, so swapping two instructions in the input cannot change the
// verdict.
func Validate(insts []isa.EncodedInstruction) error {
	for _, inst := range insts {
		if err := checkAgainst(inst, insts); err != nil {
			return err
		}
	}
	return nil
}

// checkAgainst tests one instruction against every other in the working
// set. For a RegReg "other", overlap means inst's required bits satisfy
// the other's full match-under-mask test. For an ImmReg "other" the test
// is symmetric: ImmReg leaves funct7 unconstrained, so its mask is looser
// and either pattern could shadow the other.
func checkAgainst(inst isa.EncodedInstruction, insts []isa.EncodedInstruction) error {
	for _, other := range insts {
		if other.Name == inst.Name {
			// Same instruction revisited under a different identity.
			continue
		}

		overlap := false
		switch other.Form {
		case isa.RegReg:
			overlap = inst.Match&other.Mask == other.Match
		case isa.ImmReg:
			overlap = inst.Match&other.Mask == other.Match&inst.Mask
		}

		if overlap {
			return &ConflictError{
				AName:  other.Name,
				AMask:  other.Mask,
				AMatch: other.Match,
				BName:  inst.Name,
				BMask:  inst.Mask,
				BMatch: inst.Match,
			}
		}
	}
	return nil
}
