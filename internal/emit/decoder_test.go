package emit

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opforge/opforge/internal/isa"
	"github.com/opforge/opforge/internal/resolver"
	"github.com/opforge/opforge/internal/synth"
)

func TestDecoderGolden(t *testing.T) {
	tree := fixtureTree(t)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "decoder", []byte(Decoder(tree)))
}

func TestDecoderNestsFunct7OnlyForRegReg(t *testing.T) {
	out := Decoder(fixtureTree(t))

	assert.Contains(t, out, "0x2: decode FUNCT3 {")
	assert.Contains(t, out, "0x0: decode FUNCT7 {")
	assert.Contains(t, out, "0x0: R32Op::macs({Rd = Rs1 * Rs2;}, IntCustOp);")
	assert.Contains(t, out, "0x1: I32Op::addq({Rd = Rs1 + imm;}, uint32_t, IntCustOp);")

	// The ImmReg leaf must not sit inside a FUNCT7 block.
	assert.Equal(t, 1, strings.Count(out, "decode FUNCT7"))
}

func TestDecoderDeterministic(t *testing.T) {
	// Byte-identical output for two independent synthesis runs.
	first := Decoder(fixtureTree(t))
	second := Decoder(fixtureTree(t))
	assert.Equal(t, first, second)
}

func TestDecoderSeparatesOpcodeGroups(t *testing.T) {
	insts, err := resolver.Encode(resolver.Local{}, []isa.InstructionModel{
		{Name: "one", Form: isa.ImmReg, Opcode: 2, Funct3: 0, Cycles: 1, Definition: "a"},
		{Name: "two", Form: isa.ImmReg, Opcode: 10, Funct3: 0, Cycles: 1, Definition: "b"},
	})
	require.NoError(t, err)

	tree, err := synth.Synthesize(insts)
	require.NoError(t, err)

	out := Decoder(tree)
	assert.Contains(t, out, "0x2: decode FUNCT3 {")
	assert.Contains(t, out, "0xa: decode FUNCT3 {")
	assert.Equal(t, 2, strings.Count(out, "decode FUNCT3"))
}
