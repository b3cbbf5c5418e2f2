package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opforge/opforge/internal/isa"
)

func TestSynthesizeTwoImmRegLeaves(t *testing.T) {
	// Scenario 1: one opcode bucket with two funct3 leaves.
	insts := encode(t,
		isa.InstructionModel{Name: "foo", Form: isa.ImmReg, Opcode: 2, Funct3: 0, Cycles: 1},
		isa.InstructionModel{Name: "bar", Form: isa.ImmReg, Opcode: 2, Funct3: 1, Cycles: 1},
	)

	tree, err := Synthesize(insts)
	require.NoError(t, err)
	require.Len(t, tree.Groups, 1)

	group := tree.Groups[0]
	assert.Equal(t, uint8(2), group.Opcode)
	require.Len(t, group.Slots, 2)

	require.NotNil(t, group.Slots[0].Leaf)
	assert.Equal(t, "foo", group.Slots[0].Leaf.Name)
	assert.Empty(t, group.Slots[0].Entries)

	require.NotNil(t, group.Slots[1].Leaf)
	assert.Equal(t, "bar", group.Slots[1].Leaf.Name)
}

func TestSynthesizeDuplicateImmRegSlot(t *testing.T) {
	// Scenario 2: second ImmReg insertion into a populated slot.
	insts := encode(t,
		isa.InstructionModel{Name: "foo", Form: isa.ImmReg, Opcode: 2, Funct3: 0, Cycles: 1},
		isa.InstructionModel{Name: "bar", Form: isa.ImmReg, Opcode: 2, Funct3: 0, Cycles: 1},
	)

	tree, err := Synthesize(insts)
	assert.Nil(t, tree)
	require.Error(t, err)
	assert.True(t, IsSlotCollision(err))

	var se *SlotError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, SlotOccupiedLeaf, se.Reason)
	assert.Equal(t, uint8(2), se.Opcode)
	assert.Equal(t, uint8(0), se.Funct3)
	assert.ElementsMatch(t, []string{"foo", "bar"}, []string{se.Existing, se.Incoming})
}

func TestSynthesizeRegRegFunct7Group(t *testing.T) {
	// Scenario 3: one funct3 bucket containing two funct7 entries.
	insts := encode(t,
		isa.InstructionModel{Name: "macs", Form: isa.RegReg, Opcode: 3, Funct3: 0, Funct7: 0, Cycles: 3},
		isa.InstructionModel{Name: "macu", Form: isa.RegReg, Opcode: 3, Funct3: 0, Funct7: 1, Cycles: 3},
	)

	tree, err := Synthesize(insts)
	require.NoError(t, err)
	require.Len(t, tree.Groups, 1)
	require.Len(t, tree.Groups[0].Slots, 1)

	slot := tree.Groups[0].Slots[0]
	assert.Nil(t, slot.Leaf)
	require.Len(t, slot.Entries, 2)
	assert.Equal(t, uint8(0), slot.Entries[0].Funct7)
	assert.Equal(t, "macs", slot.Entries[0].Inst.Name)
	assert.Equal(t, uint8(1), slot.Entries[1].Funct7)
	assert.Equal(t, "macu", slot.Entries[1].Inst.Name)
}

func TestSynthesizeDuplicateFunct7(t *testing.T) {
	insts := encode(t,
		isa.InstructionModel{Name: "macs", Form: isa.RegReg, Opcode: 3, Funct3: 0, Funct7: 4, Cycles: 3},
		isa.InstructionModel{Name: "macu", Form: isa.RegReg, Opcode: 3, Funct3: 0, Funct7: 4, Cycles: 3},
	)

	_, err := Synthesize(insts)
	require.Error(t, err)

	var se *SlotError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, SlotDuplicateFunct7, se.Reason)
	assert.Equal(t, uint8(4), se.Funct7)
}

func TestSynthesizeMixedFormSlot(t *testing.T) {
	// Scenario 4: RegReg and ImmReg at the same (opcode, funct3) is not
	// representable and must error, not silently overwrite.
	insts := encode(t,
		isa.InstructionModel{Name: "macs", Form: isa.RegReg, Opcode: 3, Funct3: 0, Funct7: 0, Cycles: 3},
		isa.InstructionModel{Name: "addq", Form: isa.ImmReg, Opcode: 3, Funct3: 0, Cycles: 1},
	)

	_, err := Synthesize(insts)
	require.Error(t, err)

	var se *SlotError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, SlotMixedForm, se.Reason)
}

func TestSynthesizeMixedFormSlotLeafFirst(t *testing.T) {
	// Same collision with the ImmReg leaf inserted first. The stable sort
	// orders RegReg (funct7=0) and ImmReg (funct7 zero value) by input
	// position, so reversing the input exercises the other branch.
	insts := encode(t,
		isa.InstructionModel{Name: "addq", Form: isa.ImmReg, Opcode: 3, Funct3: 0, Cycles: 1},
		isa.InstructionModel{Name: "macs", Form: isa.RegReg, Opcode: 3, Funct3: 0, Funct7: 0, Cycles: 3},
	)

	_, err := Synthesize(insts)
	require.Error(t, err)

	var se *SlotError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, SlotMixedForm, se.Reason)
}

func TestSynthesizeSortsByOpcodeFunct3Funct7(t *testing.T) {
	insts := encode(t,
		isa.InstructionModel{Name: "late", Form: isa.RegReg, Opcode: 4, Funct3: 1, Funct7: 2, Cycles: 1},
		isa.InstructionModel{Name: "mid", Form: isa.RegReg, Opcode: 4, Funct3: 1, Funct7: 0, Cycles: 1},
		isa.InstructionModel{Name: "first", Form: isa.ImmReg, Opcode: 2, Funct3: 3, Cycles: 1},
	)

	tree, err := Synthesize(insts)
	require.NoError(t, err)

	ordered := tree.Instructions()
	require.Len(t, ordered, 3)
	assert.Equal(t, "first", ordered[0].Name)
	assert.Equal(t, "mid", ordered[1].Name)
	assert.Equal(t, "late", ordered[2].Name)
}

func TestSynthesizeIdempotent(t *testing.T) {
	// Property: same models, same order, twice — structurally identical
	// trees and identical traversal order.
	models := []isa.InstructionModel{
		{Name: "macs", Form: isa.RegReg, Opcode: 3, Funct3: 0, Funct7: 0, Cycles: 3},
		{Name: "macu", Form: isa.RegReg, Opcode: 3, Funct3: 0, Funct7: 1, Cycles: 3},
		{Name: "addq", Form: isa.ImmReg, Opcode: 2, Funct3: 0, Cycles: 1},
	}

	first, err := Synthesize(encode(t, models...))
	require.NoError(t, err)
	second, err := Synthesize(encode(t, models...))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.Instructions(), second.Instructions())

	firstJSON, err := isa.MarshalCanonical(first.CanonicalMap())
	require.NoError(t, err)
	secondJSON, err := isa.MarshalCanonical(second.CanonicalMap())
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestSynthesizeDoesNotMutateInput(t *testing.T) {
	insts := encode(t,
		isa.InstructionModel{Name: "b", Form: isa.ImmReg, Opcode: 3, Funct3: 0, Cycles: 1},
		isa.InstructionModel{Name: "a", Form: isa.ImmReg, Opcode: 2, Funct3: 0, Cycles: 1},
	)

	_, err := Synthesize(insts)
	require.NoError(t, err)

	// Caller's slice keeps its original order.
	assert.Equal(t, "b", insts[0].Name)
	assert.Equal(t, "a", insts[1].Name)
}

func TestWalkVisitsSlotsInOrder(t *testing.T) {
	insts := encode(t,
		isa.InstructionModel{Name: "r1", Form: isa.RegReg, Opcode: 3, Funct3: 2, Funct7: 0, Cycles: 1},
		isa.InstructionModel{Name: "i1", Form: isa.ImmReg, Opcode: 2, Funct3: 7, Cycles: 1},
		isa.InstructionModel{Name: "i2", Form: isa.ImmReg, Opcode: 3, Funct3: 0, Cycles: 1},
	)

	tree, err := Synthesize(insts)
	require.NoError(t, err)

	type visit struct{ opcode, funct3 uint8 }
	var visits []visit
	err = tree.Walk(func(opcode, funct3 uint8, _ Slot) error {
		visits = append(visits, visit{opcode, funct3})
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []visit{{2, 7}, {3, 0}, {3, 2}}, visits)
}
