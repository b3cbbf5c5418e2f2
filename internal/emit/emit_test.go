package emit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opforge/opforge/internal/isa"
	"github.com/opforge/opforge/internal/resolver"
	"github.com/opforge/opforge/internal/synth"
)

// fixtureModels is the shared emitter fixture: a funct7 group, plus an
// ImmReg leaf on the same opcode.
func fixtureModels() []isa.InstructionModel {
	return []isa.InstructionModel{
		{Name: "macs", Form: isa.RegReg, Opcode: 2, Funct3: 0, Funct7: 0, Cycles: 3, Definition: "Rd = Rs1 * Rs2;"},
		{Name: "macu", Form: isa.RegReg, Opcode: 2, Funct3: 0, Funct7: 1, Cycles: 3, Definition: "Rd = (uint32_t)Rs1 * Rs2;"},
		{Name: "addq", Form: isa.ImmReg, Opcode: 2, Funct3: 1, Cycles: 1, Definition: "Rd = Rs1 + imm;"},
	}
}

func fixtureTree(t *testing.T) *synth.DecodeTree {
	t.Helper()
	insts, err := resolver.Encode(resolver.Local{}, fixtureModels())
	require.NoError(t, err)
	require.NoError(t, synth.Validate(insts))

	tree, err := synth.Synthesize(insts)
	require.NoError(t, err)
	return tree
}
