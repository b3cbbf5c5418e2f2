package emit

import (
	"fmt"
	"strings"

	"github.com/opforge/opforge/internal/synth"
)

// Decoder renders the simulator decoder fragment for a decode tree.
//
// ImmReg slots dispatch directly under FUNCT3; RegReg slots open a nested
// FUNCT7 decode block. The emitted order is the tree's traversal order.
func Decoder(tree *synth.DecodeTree) string {
	var b strings.Builder

	for _, group := range tree.Groups {
		fmt.Fprintf(&b, "0x%x: decode FUNCT3 {\n", group.Opcode)
		for _, slot := range group.Slots {
			if slot.Leaf != nil {
				fmt.Fprintf(&b, "    0x%x: I32Op::%s({%s}, uint32_t, IntCustOp);\n",
					slot.Funct3, slot.Leaf.Name, slot.Leaf.Definition)
				continue
			}
			fmt.Fprintf(&b, "    0x%x: decode FUNCT7 {\n", slot.Funct3)
			for _, entry := range slot.Entries {
				fmt.Fprintf(&b, "        0x%x: R32Op::%s({%s}, IntCustOp);\n",
					entry.Funct7, entry.Inst.Name, entry.Inst.Definition)
			}
			b.WriteString("    }\n")
		}
		b.WriteString("}\n")
	}

	return b.String()
}
