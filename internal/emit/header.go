package emit

import (
	"fmt"
	"strings"

	"github.com/opforge/opforge/internal/isa"
)

// EncodingHeader renders the custom mask/match #define header included by
// the assembler's opcode header. The guard deliberately differs from the
// stock RISCV_ENCODING_H so both headers can coexist.
func EncodingHeader(insts []isa.EncodedInstruction) string {
	var b strings.Builder

	b.WriteString("/* Automatically generated by opforge. */\n")
	b.WriteString("#ifndef RISCV_CUSTOM_ENCODING_H\n")
	b.WriteString("#define RISCV_CUSTOM_ENCODING_H\n")

	for _, inst := range insts {
		symbol := symbolName(inst.Name)
		fmt.Fprintf(&b, "#define MATCH_%s 0x%x\n", symbol, inst.Match)
		fmt.Fprintf(&b, "#define MASK_%s 0x%x\n", symbol, inst.Mask)
	}

	b.WriteString("#endif\n")
	b.WriteString("#ifdef DECLARE_INSN\n")
	for _, inst := range insts {
		symbol := symbolName(inst.Name)
		fmt.Fprintf(&b, "DECLARE_INSN(%s, MATCH_%s, MASK_%s)\n", inst.Name, symbol, symbol)
	}
	b.WriteString("#endif\n")

	return b.String()
}

// symbolName upper-cases an instruction name for use in #define symbols.
func symbolName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, ".", "_"))
}
