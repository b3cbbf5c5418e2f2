package synth

import (
	"sort"

	"github.com/opforge/opforge/internal/isa"
)

// DecodeTree is the hierarchical dispatch structure for a conflict-free
// instruction set: opcode → funct3 → single ImmReg leaf or ordered RegReg
// group keyed by funct7.
//
// A tree is a pure projection computed once per synthesis run. Consumers
// must treat it as read-only.
type DecodeTree struct {
	Groups []OpcodeGroup `json:"groups"`
}

// OpcodeGroup is the dispatch bucket for one opcode value.
type OpcodeGroup struct {
	Opcode uint8  `json:"opcode"`
	Slots  []Slot `json:"slots"`
}

// Slot is the dispatch slot for one (opcode, funct3) pair. Exactly one of
// Leaf and Entries is populated: an ImmReg instruction dispatches
// independent of funct7, a RegReg group branches on it.
type Slot struct {
	Funct3  uint8                   `json:"funct3"`
	Leaf    *isa.EncodedInstruction `json:"leaf,omitempty"`
	Entries []Funct7Entry           `json:"entries,omitempty"`
}

// Funct7Entry is one RegReg instruction within a funct7 group.
type Funct7Entry struct {
	Funct7 uint8                  `json:"funct7"`
	Inst   isa.EncodedInstruction `json:"inst"`
}

// Synthesize builds the decode tree for a conflict-free instruction set.
//
// The input is stably sorted by (opcode, funct3, funct7) first; generated
// artifacts must be byte-identical across runs over the same logical set,
// and the traversal order of the result equals this sorted order. The
// caller's slice is not modified.
//
// The input is expected to have passed Validate already. Slot collisions
// are still guarded independently, so calling Synthesize directly on an
// unvalidated set fails with a SlotError rather than corrupting the tree.
func Synthesize(insts []isa.EncodedInstruction) (*DecodeTree, error) {
	sorted := make([]isa.EncodedInstruction, len(insts))
	copy(sorted, insts)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Opcode != b.Opcode {
			return a.Opcode < b.Opcode
		}
		if a.Funct3 != b.Funct3 {
			return a.Funct3 < b.Funct3
		}
		return a.Funct7 < b.Funct7
	})

	tree := &DecodeTree{}
	for _, inst := range sorted {
		if err := tree.insert(inst); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// insert places one instruction, preserving first-seen bucket order.
func (t *DecodeTree) insert(inst isa.EncodedInstruction) error {
	group := t.groupFor(inst.Opcode)
	slot := group.slotFor(inst.Funct3)

	switch inst.Form {
	case isa.ImmReg:
		if slot.Leaf != nil {
			return &SlotError{
				Reason:   SlotOccupiedLeaf,
				Opcode:   inst.Opcode,
				Funct3:   inst.Funct3,
				Existing: slot.Leaf.Name,
				Incoming: inst.Name,
			}
		}
		if len(slot.Entries) > 0 {
			return &SlotError{
				Reason:   SlotMixedForm,
				Opcode:   inst.Opcode,
				Funct3:   inst.Funct3,
				Existing: slot.Entries[0].Inst.Name,
				Incoming: inst.Name,
			}
		}
		leaf := inst
		slot.Leaf = &leaf
	case isa.RegReg:
		if slot.Leaf != nil {
			return &SlotError{
				Reason:   SlotMixedForm,
				Opcode:   inst.Opcode,
				Funct3:   inst.Funct3,
				Existing: slot.Leaf.Name,
				Incoming: inst.Name,
			}
		}
		for _, entry := range slot.Entries {
			if entry.Funct7 == inst.Funct7 {
				return &SlotError{
					Reason:   SlotDuplicateFunct7,
					Opcode:   inst.Opcode,
					Funct3:   inst.Funct3,
					Funct7:   inst.Funct7,
					Existing: entry.Inst.Name,
					Incoming: inst.Name,
				}
			}
		}
		slot.Entries = append(slot.Entries, Funct7Entry{Funct7: inst.Funct7, Inst: inst})
	}
	return nil
}

func (t *DecodeTree) groupFor(opcode uint8) *OpcodeGroup {
	for i := range t.Groups {
		if t.Groups[i].Opcode == opcode {
			return &t.Groups[i]
		}
	}
	t.Groups = append(t.Groups, OpcodeGroup{Opcode: opcode})
	return &t.Groups[len(t.Groups)-1]
}

func (g *OpcodeGroup) slotFor(funct3 uint8) *Slot {
	for i := range g.Slots {
		if g.Slots[i].Funct3 == funct3 {
			return &g.Slots[i]
		}
	}
	g.Slots = append(g.Slots, Slot{Funct3: funct3})
	return &g.Slots[len(g.Slots)-1]
}

// Walk traverses the tree depth-first in synthesis order, calling fn once
// per (opcode, funct3) slot. Traversal order is deterministic and equals
// the stable sort order used by Synthesize. Returning an error aborts the
// walk.
func (t *DecodeTree) Walk(fn func(opcode, funct3 uint8, slot Slot) error) error {
	for _, group := range t.Groups {
		for _, slot := range group.Slots {
			if err := fn(group.Opcode, slot.Funct3, slot); err != nil {
				return err
			}
		}
	}
	return nil
}

// Instructions returns every instruction in traversal order.
func (t *DecodeTree) Instructions() []isa.EncodedInstruction {
	var insts []isa.EncodedInstruction
	t.Walk(func(_, _ uint8, slot Slot) error {
		if slot.Leaf != nil {
			insts = append(insts, *slot.Leaf)
		}
		for _, entry := range slot.Entries {
			insts = append(insts, entry.Inst)
		}
		return nil
	})
	return insts
}

// CanonicalMap projects the tree onto plain maps and slices for
// isa.MarshalCanonical. Used for snapshots and JSON output.
func (t *DecodeTree) CanonicalMap() map[string]any {
	groups := make([]any, len(t.Groups))
	for i, group := range t.Groups {
		slots := make([]any, len(group.Slots))
		for j, slot := range group.Slots {
			slotMap := map[string]any{"funct3": slot.Funct3}
			if slot.Leaf != nil {
				slotMap["leaf"] = instMap(*slot.Leaf)
			}
			if len(slot.Entries) > 0 {
				entries := make([]any, len(slot.Entries))
				for k, entry := range slot.Entries {
					entries[k] = map[string]any{
						"funct7": entry.Funct7,
						"inst":   instMap(entry.Inst),
					}
				}
				slotMap["entries"] = entries
			}
			slots[j] = slotMap
		}
		groups[i] = map[string]any{"opcode": group.Opcode, "slots": slots}
	}
	return map[string]any{"groups": groups}
}

func instMap(inst isa.EncodedInstruction) map[string]any {
	return map[string]any{
		"name":   inst.Name,
		"form":   inst.Form.String(),
		"mask":   inst.Mask,
		"match":  inst.Match,
		"cycles": inst.Cycles,
	}
}
